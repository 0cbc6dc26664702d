package filter

import (
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"repo-insight/internal/domain"

	"github.com/src-d/enry/v2"
)

const (
	// MaxSampleFiles 整仓分析时最多抽取的文件数
	MaxSampleFiles = 5
	// MaxSampleChars 每个文件保留的最大字符数
	MaxSampleChars = 1000
	// TruncationMarker 截断后追加的标记
	TruncationMarker = "\n... (truncated)"
)

// codeExtensions 允许抽样的代码文件扩展名
var codeExtensions = map[string]bool{
	".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".py": true, ".java": true, ".go": true, ".rb": true,
	".php": true, ".c": true, ".cpp": true, ".h": true,
	".cs": true, ".rs": true, ".swift": true, ".kt": true,
}

// vendorDirs 依赖/构建产物目录
var vendorDirs = []string{
	"node_modules", "vendor", "dist", "build", ".git",
	"bower_components", "third_party", "__pycache__", "target",
}

// minifiedPattern 压缩/打包/编译产物, 例如 app.min.js, main.bundle.js
var minifiedPattern = regexp.MustCompile(`(?i)\.(min|bundle|compiled)\.[a-z0-9]+$`)

// IsCodeFile 判断扩展名是否在允许列表里
func IsCodeFile(p string) bool {
	return codeExtensions[strings.ToLower(path.Ext(p))]
}

// IsExcluded 判断路径是否位于依赖目录或者是压缩产物
func IsExcluded(p string) bool {
	for _, segment := range strings.Split(p, "/") {
		for _, dir := range vendorDirs {
			if segment == dir {
				return true
			}
		}
	}
	return minifiedPattern.MatchString(path.Base(p))
}

// LikelyVendored 用 linguist 的规则判断是否像第三方代码
// 这些规则会误伤 cache/、deps/ 之类的自有目录, 所以只用来排序, 不直接排除
func LikelyVendored(p string) bool {
	return enry.IsVendor(p)
}

// SelectSample 按目录树顺序挑出最多 limit 个可分析的代码文件
// 优先挑不像第三方代码的文件, 不够时再用 LikelyVendored 的文件补齐
func SelectSample(entries []domain.TreeEntry, limit int) []string {
	var picked, fallback []string
	for _, e := range entries {
		if len(picked) >= limit {
			break
		}
		if e.IsDir() || !IsCodeFile(e.Path) || IsExcluded(e.Path) {
			continue
		}
		if LikelyVendored(e.Path) {
			fallback = append(fallback, e.Path)
			continue
		}
		picked = append(picked, e.Path)
	}

	for _, p := range fallback {
		if len(picked) >= limit {
			break
		}
		picked = append(picked, p)
	}
	return picked
}

// Truncate 超过 limit 个字符时截断并追加标记
func Truncate(content string, limit int) string {
	if utf8.RuneCountInString(content) <= limit {
		return content
	}
	runes := []rune(content)
	return string(runes[:limit]) + TruncationMarker
}

// DirectoryListing 把目录树渲染成 "directory: x" / "file: y" 的列表
func DirectoryListing(entries []domain.TreeEntry) string {
	var b strings.Builder
	for _, e := range entries {
		kind := "file"
		if e.IsDir() {
			kind = "directory"
		}
		b.WriteString(kind)
		b.WriteString(": ")
		b.WriteString(e.Path)
		b.WriteString("\n")
	}
	return b.String()
}
