package server

import (
	"net"
	"net/http"
	"strings"
)

// ------------------------------------------------------------
// 클라이언트 IP 추출 (access log 용)
//
// 서버는 Cloudflare 또는 로드밸런서 뒤에 배치되므로
// RemoteAddr 만으로는 실제 방문자 IP 를 알 수 없다.
// IP 는 로그에만 남기고 데이터셋에는 기록하지 않는다.
// ------------------------------------------------------------

// isPublicIP: private / loopback / link-local 이 아니면 true
func isPublicIP(ip net.IP) bool {
	if ip == nil {
		return false
	}
	if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return false
	}
	return true
}

func safeParseIP(s string) net.IP {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return net.ParseIP(s)
}

// clientIP
//
// 우선순위:
//  1. CF-Connecting-IP (Cloudflare 가 넣어주는 단일 값)
//  2. X-Forwarded-For 의 첫 번째 public IP
//  3. RemoteAddr (public 여부와 무관하게 그대로)
func clientIP(r *http.Request) string {
	if ip := safeParseIP(r.Header.Get("CF-Connecting-IP")); ip != nil {
		return ip.String()
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// 예: "203.0.113.1, 10.0.1.24"
		for _, part := range strings.Split(xff, ",") {
			if ip := safeParseIP(part); isPublicIP(ip) {
				return ip.String()
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
