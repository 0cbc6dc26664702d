package service

// 语言颜色, 与 GitHub linguist 保持一致; 表中没有的语言用中性灰
const defaultLanguageColor = "#cccccc"

var languageColors = map[string]string{
	"JavaScript": "#f1e05a",
	"TypeScript": "#3178c6",
	"Python":     "#3572A5",
	"Java":       "#b07219",
	"Go":         "#00ADD8",
	"Ruby":       "#701516",
	"PHP":        "#4F5D95",
	"C":          "#555555",
	"C++":        "#f34b7d",
	"C#":         "#178600",
	"Rust":       "#dea584",
	"Swift":      "#F05138",
	"Kotlin":     "#A97BFF",
	"HTML":       "#e34c26",
	"CSS":        "#563d7c",
	"SCSS":       "#c6538c",
	"Shell":      "#89e051",
	"Dockerfile": "#384d54",
	"Vue":        "#41b883",
	"Dart":       "#00B4AB",
	"Scala":      "#c22d40",
	"Lua":        "#000080",
	"Makefile":   "#427819",
}

func languageColor(name string) string {
	if c, ok := languageColors[name]; ok {
		return c
	}
	return defaultLanguageColor
}
