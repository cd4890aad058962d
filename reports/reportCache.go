package reports

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/busops_backend/config"
	"bitbucket.org/mmdatafocus/busops_backend/models"
)

func reportCacheEnabled() bool {
	v := strings.TrimSpace(os.Getenv("ENABLE_REPORT_CACHE"))
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes") || strings.EqualFold(v, "on")
}

func reportCacheTTL() time.Duration {
	// Env: REPORT_CACHE_TTL_SECONDS (default 120s)
	ttl := 120
	if v := strings.TrimSpace(os.Getenv("REPORT_CACHE_TTL_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttl = n
		}
	}
	return time.Duration(ttl) * time.Second
}

func reportSlowMs() int64 {
	// Env: REPORT_SLOW_MS (default 500ms)
	ms := int64(500)
	if v := strings.TrimSpace(os.Getenv("REPORT_SLOW_MS")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			ms = n
		}
	}
	return ms
}

func reportCacheKey(kind models.ReportKind, start, end time.Time) string {
	return fmt.Sprintf("report:%s:%d:%d", kind, start.UnixMilli(), end.UnixMilli())
}

func cacheGet(key string) (*Report, bool) {
	if !reportCacheEnabled() {
		return nil, false
	}
	var rep Report
	found, err := config.GetRedisObject(key, &rep)
	if err != nil || !found {
		return nil, false
	}
	return &rep, true
}

func cacheSet(key string, rep *Report) {
	if !reportCacheEnabled() {
		return
	}
	if err := config.SetRedisObject(key, rep, reportCacheTTL()); err != nil {
		config.LogError(config.GetLogger(), "reports", "cacheSet", key, nil, err)
	}
}

func logSlowReport(name string, started time.Time, records int) {
	d := time.Since(started)
	if d.Milliseconds() < reportSlowMs() {
		return
	}
	config.LogWarn(config.GetLogger(), "reports", "Compile", "slow report",
		map[string]any{"report": name, "ms": d.Milliseconds(), "records": records})
}
