package main

import (
	"crypto/rand"
	"fmt"
	"net"

	qrcode "github.com/skip2/go-qrcode"
)

// pairingPayload is the QR content Android's wireless-debugging screen
// expects when pairing with a QR code.
func pairingPayload(name, code string) string {
	return fmt.Sprintf("WIFI:T:ADB;S:%s;P:%s;;", name, code)
}

// pairingQRPNG renders the pairing payload as a scannable PNG.
func pairingQRPNG(name, code string) ([]byte, error) {
	return qrcode.Encode(pairingPayload(name, code), qrcode.Medium, 320)
}

func randomDigits(n int) (string, error) {
	if n <= 0 {
		n = 6
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = '0' + b[i]%10
	}
	return string(b), nil
}

// bestLocalIP tries to pick a sane LAN IP, shown so the user can check both
// ends are on the same network.
func bestLocalIP() string {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			var ip net.IP
			switch v := a.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil {
				continue
			}
			ip = ip.To4()
			if ip == nil {
				continue
			}
			// skip link-local 169.254.x.x
			if ip[0] == 169 && ip[1] == 254 {
				continue
			}
			return ip.String()
		}
	}
	return "127.0.0.1"
}
