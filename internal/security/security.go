// Package security 提供API密钥校验与请求限流
package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// APIKeyVerifier API密钥校验器
// 只保存密钥摘要，比较走恒定时间路径
type APIKeyVerifier struct {
	digests [][sha256.Size]byte
}

// NewAPIKeyVerifier 创建密钥校验器，keys 为空时校验处于关闭状态
func NewAPIKeyVerifier(keys []string) *APIKeyVerifier {
	v := &APIKeyVerifier{}
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		v.digests = append(v.digests, sha256.Sum256([]byte(k)))
	}
	return v
}

// Enabled 是否启用了密钥校验
func (v *APIKeyVerifier) Enabled() bool {
	return len(v.digests) > 0
}

// Verify 校验候选密钥
// 逐一比对全部摘要而不提前返回，避免按命中位置泄露时间差
func (v *APIKeyVerifier) Verify(candidate string) bool {
	if candidate == "" {
		return false
	}

	sum := sha256.Sum256([]byte(candidate))
	matched := false
	for i := range v.digests {
		if hmac.Equal(v.digests[i][:], sum[:]) {
			matched = true
		}
	}
	return matched
}

// RateLimiter 按键限流的令牌桶
type RateLimiter struct {
	buckets map[string]*bucket
	rate    float64 // 每秒补充的令牌数
	burst   float64
	mu      sync.Mutex
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewRateLimiter 创建限流器，perMinute 为稳态速率，burst 为突发容量
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	if burst <= 0 {
		burst = perMinute
	}

	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    float64(perMinute) / 60.0,
		burst:   float64(burst),
	}

	go rl.cleanup()

	return rl
}

// Allow 检查是否允许请求
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, exists := rl.buckets[key]
	if !exists {
		b = &bucket{tokens: rl.burst, lastSeen: now}
		rl.buckets[key] = b
	}

	elapsed := now.Sub(b.lastSeen).Seconds()
	b.tokens = math.Min(rl.burst, b.tokens+elapsed*rl.rate)
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// cleanup 定期清理久未活动的桶
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-10 * time.Minute)
		for key, b := range rl.buckets {
			if b.lastSeen.Before(cutoff) {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

// ExtractAPIKey 从请求中提取API密钥
func ExtractAPIKey(r *http.Request) string {
	// 1. 从 Authorization header
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	// 2. 从 X-API-Key header
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}

	// 3. 从 query parameter
	if key := r.URL.Query().Get("api_key"); key != "" {
		return key
	}

	return ""
}

// ClientIP 提取客户端IP，优先取代理链头部
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
