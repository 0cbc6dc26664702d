package readme

import (
	"fmt"
	"strings"
	"time"

	"repo-insight/internal/common"
	"repo-insight/internal/domain"
)

// FileName 生成文件的默认名称
const FileName = "README.md"

// snippet 某个语言的安装命令和用法示例
type snippet struct {
	install  func(r *domain.RepositoryRecord) string
	usage    func(r *domain.RepositoryRecord) string
	usageTag string // 代码块的语言标记
}

var npmSnippet = snippet{
	install: func(r *domain.RepositoryRecord) string { return "npm install" },
	usage: func(r *domain.RepositoryRecord) string {
		return fmt.Sprintf("import { init } from '%s';\n\ninit();", r.ShortName())
	},
	usageTag: "javascript",
}

// snippets 按主语言查找, 未命中时使用 defaultSnippet
var snippets = map[string]snippet{
	"JavaScript": npmSnippet,
	"TypeScript": npmSnippet,
	"Python": {
		install: func(r *domain.RepositoryRecord) string { return "pip install -r requirements.txt" },
		usage: func(r *domain.RepositoryRecord) string {
			module := strings.ReplaceAll(r.ShortName(), "-", "_")
			return fmt.Sprintf("import %s\n\n%s.main()", module, module)
		},
		usageTag: "python",
	},
	"Java": {
		install: func(r *domain.RepositoryRecord) string { return "mvn clean install" },
		usage: func(r *domain.RepositoryRecord) string {
			owner, name := r.OwnerAndName()
			pkg := strings.ToLower(strings.ReplaceAll(owner+"."+name, "-", ""))
			return fmt.Sprintf("import com.%s.*;\n\npublic class Main {\n    public static void main(String[] args) {\n        // Your code here\n    }\n}", pkg)
		},
		usageTag: "java",
	},
}

var defaultSnippet = snippet{
	install:  func(r *domain.RepositoryRecord) string { return "# Add installation instructions here" },
	usage:    func(r *domain.RepositoryRecord) string { return "// Add usage examples here" },
	usageTag: "",
}

func lookup(language string) snippet {
	if s, ok := snippets[language]; ok {
		return s
	}
	return defaultSnippet
}

// Generator 根据缓存的仓库记录生成 README 文本, 不做任何 I/O
type Generator struct {
	nowFunc func() time.Time
}

// NewGenerator 创建新的生成器实例
func NewGenerator() *Generator {
	return &Generator{nowFunc: time.Now} // 便于测试注入当前时间
}

// Generate 生成 README
// 字段为空时对应段落留空, 不返回错误
func (g *Generator) Generate(r *domain.RepositoryRecord, opts domain.ReadmeOptions) string {
	var b strings.Builder
	name := r.ShortName()

	fmt.Fprintf(&b, "# %s\n\n", name)
	if r.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", r.Description)
	}

	fmt.Fprintf(&b, "![GitHub stars](https://img.shields.io/github/stars/%s?style=social)\n", r.FullName)
	fmt.Fprintf(&b, "![GitHub forks](https://img.shields.io/github/forks/%s?style=social)\n", r.FullName)
	fmt.Fprintf(&b, "![GitHub issues](https://img.shields.io/github/issues/%s)\n\n", r.FullName)

	b.WriteString("## Overview\n\n")
	b.WriteString(overview(r))
	b.WriteString("\n\n")

	b.WriteString("## Languages\n\n")
	for _, l := range r.Languages {
		fmt.Fprintf(&b, "- **%s**: %.1f%%\n", l.Name, l.Percentage)
	}
	b.WriteString("\n")

	s := lookup(r.PrimaryLanguage)

	if opts.Installation() {
		b.WriteString("## Installation\n\n```bash\n")
		fmt.Fprintf(&b, "git clone https://github.com/%s.git\n", r.FullName)
		fmt.Fprintf(&b, "cd %s\n", name)
		b.WriteString(s.install(r))
		b.WriteString("\n```\n\n")
	}

	if opts.Usage() {
		fmt.Fprintf(&b, "## Usage\n\n```%s\n", s.usageTag)
		b.WriteString(s.usage(r))
		b.WriteString("\n```\n\n")
	}

	if opts.Contributing() {
		b.WriteString(contributing)
	}

	if opts.License() {
		license := r.License
		if license == "" || license == "NOASSERTION" {
			license = "MIT"
		}
		fmt.Fprintf(&b, "## License\n\nThis project is licensed under the %s License - see the [LICENSE](LICENSE) file for details.\n\n", license)
	}

	for _, section := range opts.CustomSections {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", section.Title, section.Content)
	}

	fmt.Fprintf(&b, "---\n\n*This README was generated on %s*\n", common.LongDate(g.nowFunc()))
	return b.String()
}

func overview(r *domain.RepositoryRecord) string {
	lang := r.PrimaryLanguage
	if lang == "" {
		lang = "software"
	}
	desc := strings.TrimSuffix(strings.TrimSpace(r.Description), ".")
	if desc == "" {
		return fmt.Sprintf("%s is a %s project.", r.ShortName(), lang)
	}
	return fmt.Sprintf("%s is a %s project that provides %s.", r.ShortName(), lang, strings.ToLower(desc))
}

const contributing = `## Contributing

Contributions are welcome! Please feel free to submit a Pull Request.

1. Fork the repository
2. Create your feature branch (` + "`git checkout -b feature/amazing-feature`" + `)
3. Commit your changes (` + "`git commit -m 'Add some amazing feature'`" + `)
4. Push to the branch (` + "`git push origin feature/amazing-feature`" + `)
5. Open a Pull Request

`
