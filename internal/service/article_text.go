package service

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
)

// DefaultExcerptLength 默认摘要长度（字符数）
const DefaultExcerptLength = 160

const excerptEllipsis = "…"

var markdown = goldmark.New()

// blockTags 块级元素，提取纯文本时在其前后补空白
const blockTags = "br, p, div, li, ul, ol, h1, h2, h3, h4, h5, h6, tr, td, th, blockquote, pre, figure, figcaption, section, article"

// GenerateSlug 由标题生成 URL 安全的 slug：
// 小写，空白统一为空格，去除 [a-z0-9 -] 以外的字符，空格转 -，合并连续 -，去除首尾 -
func GenerateSlug(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '-':
			b.WriteRune(r)
		}
	}

	var out strings.Builder
	out.Grow(b.Len())
	lastDash := false
	for _, r := range strings.Join(strings.Fields(b.String()), "-") {
		if r == '-' {
			if lastDash {
				continue
			}
			lastDash = true
		} else {
			lastDash = false
		}
		out.WriteRune(r)
	}
	return strings.Trim(out.String(), "-")
}

// StripHTML 去除标签并解码实体，合并空白
func StripHTML(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return strings.Join(strings.Fields(content), " ")
	}
	doc.Find("script, style, noscript, template").Remove()
	doc.Find(blockTags).Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml(" ")
		s.AppendHtml(" ")
	})
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// GenerateExcerpt 生成纯文本摘要，超过 maxLength 个字符时截断并追加省略号
func GenerateExcerpt(content string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultExcerptLength
	}
	text := StripHTML(content)
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return strings.TrimRightFunc(string(runes[:maxLength]), unicode.IsSpace) + excerptEllipsis
}

// RenderMarkdown 将 markdown 渲染为 HTML（原始 HTML 会被转义）
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
