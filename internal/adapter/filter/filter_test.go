package filter

import (
	"fmt"
	"strings"
	"testing"

	"repo-insight/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestIsCodeFile(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"src/index.js", true},
		{"App.TSX", true},
		{"main.go", true},
		{"server/app.py", true},
		{"README.md", false},
		{"package.json", false},
		{"logo.png", false},
		{"Makefile", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCodeFile(tt.path))
		})
	}
}

func TestIsExcluded(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"node_modules/react/index.js", true},
		{"web/node_modules/lodash/lodash.js", true},
		{"vendor/github.com/pkg/errors/errors.go", true},
		{"dist/app.js", true},
		{"build/output.js", true},
		{"public/app.min.js", true},
		{"static/main.bundle.js", true},
		{"out/styles.compiled.js", true},
		{"src/index.js", false},
		{"src/distance.js", false},
		{"app/main.py", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsExcluded(tt.path))
		})
	}
}

func TestSelectSample(t *testing.T) {
	entries := []domain.TreeEntry{
		{Path: "src", Type: "tree"},
		{Path: "node_modules/x/index.js", Type: "blob"},
		{Path: "README.md", Type: "blob"},
		{Path: "src/a.js", Type: "blob"},
		{Path: "src/a.min.js", Type: "blob"},
		{Path: "src/b.ts", Type: "blob"},
		{Path: "vendor/lib.go", Type: "blob"},
		{Path: "src/c.py", Type: "blob"},
		{Path: "src/d.go", Type: "blob"},
		{Path: "src/e.rs", Type: "blob"},
		{Path: "src/f.java", Type: "blob"},
	}

	picked := SelectSample(entries, MaxSampleFiles)

	assert.Equal(t, []string{"src/a.js", "src/b.ts", "src/c.py", "src/d.go", "src/e.rs"}, picked)
}

func TestSelectSample_LikelyVendoredOnlyFillsUp(t *testing.T) {
	tests := []struct {
		name     string
		entries  []domain.TreeEntry
		expected []string
	}{
		{
			name: "自有的 cache 和 deps 目录不会被丢掉",
			entries: []domain.TreeEntry{
				{Path: "cache/store.go", Type: "blob"},
				{Path: "deps/x.c", Type: "blob"},
				{Path: "src/main.go", Type: "blob"},
			},
			expected: []string{"src/main.go", "cache/store.go", "deps/x.c"},
		},
		{
			name: "候选足够时优先自有代码",
			entries: []domain.TreeEntry{
				{Path: "cache/store.go", Type: "blob"},
				{Path: "a.go", Type: "blob"},
				{Path: "b.go", Type: "blob"},
				{Path: "c.go", Type: "blob"},
				{Path: "d.go", Type: "blob"},
				{Path: "e.go", Type: "blob"},
			},
			expected: []string{"a.go", "b.go", "c.go", "d.go", "e.go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SelectSample(tt.entries, MaxSampleFiles))
		})
	}
}

func TestLikelyVendored(t *testing.T) {
	assert.True(t, LikelyVendored("cache/store.go"))
	assert.False(t, LikelyVendored("src/main.go"))
	// 明确的依赖目录仍然直接排除
	assert.True(t, IsExcluded("vendor/lib.go"))
	assert.False(t, IsExcluded("cache/store.go"))
}

func TestSelectSample_NeverExceedsLimit(t *testing.T) {
	var entries []domain.TreeEntry
	for i := 0; i < 50; i++ {
		entries = append(entries, domain.TreeEntry{Path: fmt.Sprintf("pkg/file%d.go", i), Type: "blob"})
	}

	assert.Len(t, SelectSample(entries, MaxSampleFiles), MaxSampleFiles)
	assert.Empty(t, SelectSample(nil, MaxSampleFiles))
}

func TestTruncate(t *testing.T) {
	short := strings.Repeat("a", MaxSampleChars)
	assert.Equal(t, short, Truncate(short, MaxSampleChars))

	long := strings.Repeat("b", MaxSampleChars+1)
	got := Truncate(long, MaxSampleChars)
	assert.True(t, strings.HasSuffix(got, TruncationMarker))
	assert.Equal(t, strings.Repeat("b", MaxSampleChars), strings.TrimSuffix(got, TruncationMarker))

	// 多字节字符按字符计数, 不会截断出半个字符
	cjk := strings.Repeat("金", MaxSampleChars+10)
	got = Truncate(cjk, MaxSampleChars)
	assert.Equal(t, strings.Repeat("金", MaxSampleChars)+TruncationMarker, got)
}

func TestDirectoryListing(t *testing.T) {
	listing := DirectoryListing([]domain.TreeEntry{
		{Path: "src", Type: "tree"},
		{Path: "src/app.js", Type: "blob"},
	})

	assert.Equal(t, "directory: src\nfile: src/app.js\n", listing)
	assert.Empty(t, DirectoryListing(nil))
}
