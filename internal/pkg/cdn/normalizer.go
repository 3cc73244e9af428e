package cdn

import (
	"errors"
	log "log/slog"
	"net/url"
	"strings"
)

var (
	ErrEmbeddedData   = errors.New("embedded data urls are not supported")
	ErrEmptyReference = errors.New("empty media reference")
)

const dataScheme = "data:"

// Normalizer 将媒体引用规范化为 CDN 绝对地址
type Normalizer struct {
	domain string
	// legacyPrefixes 旧对象存储地址前缀（不含协议），如 bucket.s3.amazonaws.com 或 s3.amazonaws.com/bucket
	legacyPrefixes []string
}

func NewNormalizer(domain string, legacyPrefixes []string) *Normalizer {
	prefixes := make([]string, 0, len(legacyPrefixes))
	for _, p := range legacyPrefixes {
		p = strings.Trim(strings.TrimSpace(p), "/")
		if p != "" {
			prefixes = append(prefixes, strings.ToLower(p))
		}
	}
	return &Normalizer{
		domain:         strings.Trim(strings.TrimSpace(domain), "/"),
		legacyPrefixes: prefixes,
	}
}

// URLForKey 存储 key 对应的 CDN 地址
func (n *Normalizer) URLForKey(key string) string {
	return "https://" + n.domain + "/" + strings.TrimPrefix(key, "/")
}

// Normalize 规范化单个引用
func (n *Normalizer) Normalize(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrEmptyReference
	}
	if hasPrefixFold(ref, dataScheme) {
		return "", ErrEmbeddedData
	}

	scheme, rest, ok := splitScheme(ref)
	if !ok {
		return n.URLForKey(ref), nil
	}

	if key, ok := n.legacyKey(rest); ok {
		return n.URLForKey(key), nil
	}

	if scheme == "https" {
		if !n.isCanonicalHost(rest) {
			log.Warn("non-canonical media url kept as is", "url", ref)
		}
		return ref, nil
	}
	return "https://" + rest, nil
}

// NormalizeAll 逐个规范化，失败的引用被丢弃
func (n *Normalizer) NormalizeAll(refs []string) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		u, err := n.Normalize(ref)
		if err != nil {
			log.Warn("dropping media reference", "ref", truncate(ref, 50), "err", err)
			continue
		}
		out = append(out, u)
	}
	return out
}

// StorageKey 从媒体地址反解出对象存储 key，外部地址返回 false
func (n *Normalizer) StorageKey(mediaURL string) (string, bool) {
	mediaURL = strings.TrimSpace(mediaURL)
	if mediaURL == "" || hasPrefixFold(mediaURL, dataScheme) {
		return "", false
	}

	_, rest, ok := splitScheme(mediaURL)
	if !ok {
		key := strings.TrimPrefix(mediaURL, "/")
		return key, key != ""
	}

	if key, ok := n.legacyKey(rest); ok {
		return key, true
	}
	if n.isCanonicalHost(rest) {
		key := rest[len(n.domain):]
		key = strings.TrimPrefix(key, "/")
		if i := strings.IndexAny(key, "?#"); i >= 0 {
			key = key[:i]
		}
		if unescaped, err := url.PathUnescape(key); err == nil {
			key = unescaped
		}
		return key, key != ""
	}
	return "", false
}

func (n *Normalizer) isCanonicalHost(rest string) bool {
	if n.domain == "" || len(rest) < len(n.domain) || !strings.EqualFold(rest[:len(n.domain)], n.domain) {
		return false
	}
	tail := rest[len(n.domain):]
	return tail == "" || tail[0] == '/' || tail[0] == '?' || tail[0] == '#'
}

func (n *Normalizer) legacyKey(rest string) (string, bool) {
	lower := strings.ToLower(rest)
	for _, p := range n.legacyPrefixes {
		if strings.HasPrefix(lower, p+"/") {
			key := rest[len(p)+1:]
			if i := strings.IndexAny(key, "?#"); i >= 0 {
				key = key[:i]
			}
			if key != "" {
				return key, true
			}
		}
	}
	return "", false
}

// splitScheme 拆分 http/https 协议，其余一律视为存储 key
func splitScheme(ref string) (string, string, bool) {
	switch {
	case hasPrefixFold(ref, "https://"):
		return "https", ref[len("https://"):], true
	case hasPrefixFold(ref, "http://"):
		return "http", ref[len("http://"):], true
	}
	return "", "", false
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
