// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

package export

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/sugarlabs/sugarai-tui/internal/model"
)

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is the unit of export: one saved session's exchange plus
// the metadata shown in the page header.
type Transcript struct {
	ID      string
	Title   string
	SavedAt time.Time
	Entries []model.HistoryEntry
}

// DisplayTitle returns the explicit title, or derives one from the
// first question the way the TUI titles sessions.
func (tr *Transcript) DisplayTitle() string {
	if tr.Title != "" {
		return tr.Title
	}
	for _, entry := range tr.Entries {
		if model.Role(entry.Type) == model.RoleUser {
			title := strings.TrimSpace(entry.Message)
			if runes := []rune(title); len(runes) > 50 {
				title = string(runes[:47]) + "..."
			}
			return title
		}
	}
	return "Sugar-AI conversation"
}

// =============================================================================
// HTML EXPORTER
// =============================================================================

// Options configures the exported page.
type Options struct {
	// Theme is the page's initial theme, "light" or "dark". Exports
	// default to light because most of them end up printed or shared
	// with a teacher.
	Theme string
}

// DefaultOptions returns the default export options.
func DefaultOptions() *Options {
	return &Options{Theme: "light"}
}

// HTMLExporter renders transcripts as self-contained HTML documents.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates an HTML exporter. A nil opts uses defaults.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Theme != "light" && opts.Theme != "dark" {
		opts.Theme = "light"
	}
	return &HTMLExporter{options: opts}
}

// FileExtension returns the extension for exported files.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type of the exported content.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// Export renders a transcript to a complete HTML page. Everything that
// came over the wire is escaped; the only markup in the output is our
// own.
func (e *HTMLExporter) Export(tr *Transcript) ([]byte, error) {
	if tr == nil {
		return nil, fmt.Errorf("transcript is nil")
	}
	if len(tr.Entries) == 0 {
		return nil, fmt.Errorf("transcript has no messages")
	}

	title := tr.DisplayTitle()

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(title)))
	sb.WriteString("    <meta name=\"generator\" content=\"sugarai\">\n")
	if !tr.SavedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", tr.SavedAt.Format(time.RFC3339)))
	}
	sb.WriteString(pageCSS)
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", e.options.Theme))
	sb.WriteString("    <div class=\"container\">\n")

	sb.WriteString(e.renderHeader(tr, title))

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, entry := range tr.Entries {
		sb.WriteString(e.renderEntry(entry))
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exported from <strong>Sugar-AI</strong> on %s</p>\n",
		time.Now().Format("January 2, 2006")))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString(themeScript)
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// renderHeader renders the page header with the session metadata.
func (e *HTMLExporter) renderHeader(tr *Transcript, title string) string {
	var sb strings.Builder
	sb.WriteString("        <header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(title)))
	sb.WriteString("            <div class=\"metadata\">\n")
	if tr.ID != "" {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Session:</strong> %s</span>\n",
			html.EscapeString(tr.ID)))
	}
	if !tr.SavedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Saved:</strong> %s</span>\n",
			tr.SavedAt.Format("January 2, 2006 at 3:04 PM")))
	}
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Messages:</strong> %d</span>\n",
		len(tr.Entries)))
	sb.WriteString("                <button class=\"theme-toggle\" onclick=\"toggleTheme()\" title=\"Switch colors\">Light/Dark</button>\n")
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")
	return sb.String()
}

// renderEntry renders one exchange line as a message card.
func (e *HTMLExporter) renderEntry(entry model.HistoryEntry) string {
	role := model.Role(entry.Type)
	roleClass := entry.Type
	if roleClass == "" {
		roleClass = "unknown"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("            <div class=\"message %s-message\">\n", html.EscapeString(roleClass)))
	sb.WriteString("                <div class=\"message-header\">\n")
	sb.WriteString(fmt.Sprintf("                    <span class=\"role-label\">%s</span>\n",
		html.EscapeString(role.DisplayName())))
	sb.WriteString("                </div>\n")
	sb.WriteString("                <div class=\"message-content\">\n")
	sb.WriteString(formatContent(entry.Message))
	sb.WriteString("\n                </div>\n")
	sb.WriteString("            </div>\n")
	return sb.String()
}

// =============================================================================
// CONTENT FORMATTING
// =============================================================================

var (
	codeBlockRegex  = regexp.MustCompile("```([a-zA-Z0-9_+-]*)\n([\\s\\S]*?)```")
	inlineCodeRegex = regexp.MustCompile("`([^`\n]+)`")
)

// formatContent converts a plain-text answer to HTML: fenced code
// blocks become <pre> sections, backtick spans become inline code, and
// blank lines split paragraphs. The text is escaped before any markup
// is added, so answer content can never inject tags.
func formatContent(content string) string {
	content = html.EscapeString(content)

	content = codeBlockRegex.ReplaceAllStringFunc(content, func(match string) string {
		parts := codeBlockRegex.FindStringSubmatch(match)
		if len(parts) != 3 {
			return match
		}
		lang := parts[1]
		code := strings.TrimRight(parts[2], "\n")

		langLabel := ""
		if lang != "" {
			langLabel = fmt.Sprintf("<div class=\"code-lang\">%s</div>", lang)
		}
		return fmt.Sprintf("<div class=\"code-block\">%s<pre><code>%s</code></pre></div>", langLabel, code)
	})

	content = inlineCodeRegex.ReplaceAllString(content, "<code class=\"inline-code\">$1</code>")

	// Paragraphs: blank lines split, code blocks pass through verbatim
	// so <pre> content never grows <br> tags.
	var out []string
	inPara := false
	inCode := false

	closePara := func() {
		if inPara && len(out) > 0 {
			out[len(out)-1] += "</p>"
			inPara = false
		}
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "<div class=\"code-block\">"):
			closePara()
			out = append(out, line)
			inCode = !strings.HasSuffix(trimmed, "</div>")
		case inCode:
			out = append(out, line)
			if strings.HasSuffix(trimmed, "</div>") {
				inCode = false
			}
		case trimmed == "":
			closePara()
		case inPara:
			out = append(out, "<br>"+trimmed)
		default:
			out = append(out, "<p>"+trimmed)
			inPara = true
		}
	}
	closePara()

	return strings.Join(out, "\n")
}

// =============================================================================
// EMBEDDED PAGE ASSETS
// =============================================================================

// pageCSS carries the whole stylesheet so the file works offline. The
// palettes mirror the TUI theme's light and dark variants.
const pageCSS = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif;
            --font-mono: "SF Mono", Monaco, Inconsolata, "Fira Code", monospace;
        }

        .light-theme {
            --bg-page: #F7F7F7;
            --bg-card: #FFFFFF;
            --bg-header: #D6EBF7;
            --text-primary: #282828;
            --text-secondary: #6B6B6B;
            --border-color: #E5E5E5;
            --user-bg: #D6EBF7;
            --user-accent: #0076C3;
            --ai-bg: #F3EFFB;
            --ai-accent: #6D28D9;
            --code-bg: #282828;
            --code-fg: #E5E5E5;
        }

        .dark-theme {
            --bg-page: #141414;
            --bg-card: #1C1C1C;
            --bg-header: #0C4A6E;
            --text-primary: #E5E5E5;
            --text-secondary: #B0B0B0;
            --border-color: #3A3A3A;
            --user-bg: #075985;
            --user-accent: #38BDF8;
            --ai-bg: #37304F;
            --ai-accent: #C4B5FD;
            --code-bg: #101010;
            --code-fg: #E5E5E5;
        }

        body {
            font-family: var(--font-sans);
            font-size: 16px;
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-page);
            padding: 20px;
        }

        .container {
            max-width: 820px;
            margin: 0 auto;
            background: var(--bg-card);
            border-radius: 12px;
            box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);
            overflow: hidden;
        }

        .header {
            padding: 28px 32px;
            background: var(--bg-header);
            border-bottom: 2px solid var(--border-color);
        }

        .header h1 { font-size: 24px; margin-bottom: 12px; }

        .metadata {
            display: flex;
            flex-wrap: wrap;
            gap: 16px;
            font-size: 14px;
            color: var(--text-secondary);
            align-items: center;
        }

        .theme-toggle {
            margin-left: auto;
            border: 1px solid var(--border-color);
            border-radius: 6px;
            background: var(--bg-card);
            color: var(--text-primary);
            padding: 4px 10px;
            cursor: pointer;
        }

        .conversation { padding: 24px 32px; }

        .message {
            margin-bottom: 20px;
            padding: 16px 20px;
            border-radius: 10px;
            border-left: 4px solid var(--border-color);
        }

        .user-message {
            background: var(--user-bg);
            border-left-color: var(--user-accent);
        }

        .ai-message {
            background: var(--ai-bg);
            border-left-color: var(--ai-accent);
        }

        .message-header { margin-bottom: 8px; }

        .role-label {
            font-weight: 700;
            font-size: 14px;
            text-transform: uppercase;
            letter-spacing: 0.05em;
        }

        .user-message .role-label { color: var(--user-accent); }
        .ai-message .role-label { color: var(--ai-accent); }

        .message-content p { margin-bottom: 8px; }
        .message-content p:last-child { margin-bottom: 0; }

        .code-block {
            margin: 12px 0;
            border-radius: 8px;
            overflow: hidden;
        }

        .code-lang {
            background: var(--code-bg);
            color: var(--text-secondary);
            font-family: var(--font-mono);
            font-size: 12px;
            padding: 6px 12px 0;
        }

        .code-block pre {
            background: var(--code-bg);
            color: var(--code-fg);
            padding: 12px;
            overflow-x: auto;
        }

        .code-block code { font-family: var(--font-mono); font-size: 14px; }

        .inline-code {
            background: var(--border-color);
            font-family: var(--font-mono);
            font-size: 14px;
            padding: 1px 5px;
            border-radius: 4px;
        }

        .footer {
            padding: 16px 32px;
            border-top: 1px solid var(--border-color);
            font-size: 13px;
            color: var(--text-secondary);
            text-align: center;
        }

        @media print {
            body { background: #FFFFFF; padding: 0; }
            .container { box-shadow: none; }
            .theme-toggle { display: none; }
        }
    </style>
`

// themeScript flips the body class between the two palettes.
const themeScript = `    <script>
        function toggleTheme() {
            var body = document.body;
            if (body.classList.contains("dark-theme")) {
                body.classList.replace("dark-theme", "light-theme");
            } else {
                body.classList.replace("light-theme", "dark-theme");
            }
        }
    </script>
`
