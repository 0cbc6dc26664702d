package common

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// FormatMagnitude 把数量格式化成 "999" / "1.5k" / "2.5M"
func FormatMagnitude(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return strconv.Itoa(n)
	}
}

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
	secondsPerMonth  = 30 * secondsPerDay
	secondsPerYear   = 12 * secondsPerMonth
)

// RelativeTime 返回 t 相对于 now 的描述, 例如 "3 days ago"
// 一个月按 30 天, 一年按 12 个月计算
func RelativeTime(t, now time.Time) string {
	return RelativeSeconds(int64(now.Sub(t) / time.Second))
}

// RelativeSeconds 按已过去的秒数生成相对时间文本
func RelativeSeconds(s int64) string {
	if s < 0 {
		s = 0
	}
	switch {
	case s < secondsPerMinute:
		return "just now"
	case s < secondsPerHour:
		return plural(s/secondsPerMinute, "minute")
	case s < secondsPerDay:
		return plural(s/secondsPerHour, "hour")
	case s < secondsPerMonth:
		return plural(s/secondsPerDay, "day")
	case s < secondsPerYear:
		return plural(s/secondsPerDay/30, "month")
	default:
		return plural(s/secondsPerDay/30/12, "year")
	}
}

func plural(n int64, unit string) string {
	if n != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}

// LongDate 长日期格式, 例如 "March 4, 2021"
func LongDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// Percentage 计算 part/total 的百分比, total 为 0 时按 1 处理
func Percentage(part, total int) float64 {
	p := float64(part) / float64(max(total, 1)) * 100
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return 0
	}
	return p
}
