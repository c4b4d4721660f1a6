// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/fixo-tui/internal/markdown"
	"github.com/jeranaias/fixo-tui/internal/model"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports conversations to a standalone HTML page.
// Message bodies go through the same Markdown pipeline as the TUI, so
// the exported page and the terminal agree on structure and the content
// is already sanitized.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a conversation to HTML.
func (e *HTMLExporter) Export(conv *Conversation) ([]byte, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}
	if len(conv.Messages) == 0 {
		return nil, fmt.Errorf("conversation has no messages")
	}

	theme := e.options.Theme
	if theme != "light" {
		theme = "dark"
	}

	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"fr\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(conv.Title)))
	sb.WriteString("    <meta name=\"generator\" content=\"fixo-tui\">\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", conv.CreatedAt.Format(time.RFC3339)))
	sb.WriteString(exportCSS)
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", theme))
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString(e.renderHeader(conv))
	}

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range conv.Messages {
		sb.WriteString(e.renderMessage(msg))
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exporté de <strong>FIXƆ</strong> le %s</p>\n",
		time.Now().Format("02/01/2006 à 15:04")))
	sb.WriteString("        </footer>\n")

	sb.WriteString("    </div>\n")
	sb.WriteString(exportScript)
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) renderHeader(conv *Conversation) string {
	var sb strings.Builder

	sb.WriteString("        <header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(conv.Title)))
	sb.WriteString("            <div class=\"metadata\">\n")
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Mode :</strong> %s</span>\n", html.EscapeString(conv.Mode)))
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Créée :</strong> %s</span>\n", formatTimestamp(conv.CreatedAt)))
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Messages :</strong> %d</span>\n", len(conv.Messages)))
	sb.WriteString("                <button class=\"theme-toggle\" onclick=\"toggleTheme()\" title=\"Changer de thème\">Thème</button>\n")
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")

	return sb.String()
}

func (e *HTMLExporter) renderMessage(msg *model.Message) string {
	var sb strings.Builder

	roleClass := "assistant"
	if msg.Role == model.RoleUser {
		roleClass = "user"
	}
	sb.WriteString(fmt.Sprintf("            <div class=\"message %s-message\">\n", roleClass))

	sb.WriteString("                <div class=\"message-header\">\n")
	sb.WriteString(fmt.Sprintf("                    <span class=\"role-label\">%s</span>\n", roleLabel(msg.Role)))
	if e.options.IncludeTimestamps {
		sb.WriteString(fmt.Sprintf("                    <span class=\"timestamp\">%s</span>\n", formatShortTimestamp(msg.Timestamp)))
	}
	sb.WriteString("                </div>\n")

	sb.WriteString("                <div class=\"message-content\">\n")
	sb.WriteString(markdown.Render(msg.Text))
	sb.WriteString("\n                </div>\n")

	if len(msg.Steps) > 0 {
		sb.WriteString("                <ol class=\"solution-steps\">\n")
		for _, step := range msg.Steps {
			sb.WriteString(fmt.Sprintf("                    <li>%s</li>\n", html.EscapeString(step)))
		}
		sb.WriteString("                </ol>\n")
	}

	sb.WriteString("            </div>\n")

	return sb.String()
}

// =============================================================================
// EMBEDDED CSS AND SCRIPT
// =============================================================================

// exportCSS styles the page, including the classes the Markdown
// pipeline emits (code-block-wrapper, md-table, md-quote, syntax spans).
const exportCSS = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif;
            --font-mono: "SF Mono", "Monaco", "Fira Code", "Source Code Pro", monospace;
        }

        .dark-theme {
            --bg-primary: #1a1b26;
            --bg-secondary: #24283b;
            --bg-tertiary: #414868;
            --text-primary: #c0caf5;
            --text-muted: #565f89;
            --border-color: #414868;
            --user-bg: #1f2335;
            --assistant-bg: #24283b;
            --code-bg: #16161e;
            --accent-blue: #7aa2f7;
            --accent-green: #9ece6a;
            --accent-orange: #ff9e64;
            --accent-purple: #bb9af7;
            --accent-red: #f7768e;
        }

        .light-theme {
            --bg-primary: #ffffff;
            --bg-secondary: #f7f8fa;
            --bg-tertiary: #e1e4e8;
            --text-primary: #24292e;
            --text-muted: #6a737d;
            --border-color: #e1e4e8;
            --user-bg: #f6f8fa;
            --assistant-bg: #ffffff;
            --code-bg: #f6f8fa;
            --accent-blue: #0366d6;
            --accent-green: #22863a;
            --accent-orange: #e36209;
            --accent-purple: #6f42c1;
            --accent-red: #d73a49;
        }

        body {
            font-family: var(--font-sans);
            font-size: 16px;
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
        }

        .container {
            max-width: 860px;
            margin: 0 auto;
            background: var(--bg-secondary);
            border-radius: 12px;
            overflow: hidden;
        }

        .header {
            padding: 28px 32px;
            background: var(--bg-tertiary);
            border-bottom: 2px solid var(--border-color);
        }

        .header h1 { font-size: 24px; margin-bottom: 12px; }

        .metadata {
            display: flex;
            flex-wrap: wrap;
            gap: 16px;
            font-size: 14px;
            color: var(--text-muted);
            align-items: center;
        }

        .theme-toggle {
            margin-left: auto;
            background: var(--bg-secondary);
            color: var(--text-primary);
            border: 1px solid var(--border-color);
            border-radius: 6px;
            padding: 6px 12px;
            cursor: pointer;
        }

        .conversation { padding: 24px 32px; }

        .message {
            margin-bottom: 20px;
            padding: 16px 20px;
            border-radius: 8px;
            border-left: 4px solid transparent;
        }

        .user-message { background: var(--user-bg); border-left-color: var(--accent-blue); }
        .assistant-message { background: var(--assistant-bg); border-left-color: var(--accent-green); }

        .message-header {
            display: flex;
            justify-content: space-between;
            font-size: 13px;
            margin-bottom: 8px;
        }
        .role-label { font-weight: 700; }
        .timestamp { color: var(--text-muted); }

        .solution-steps { margin: 12px 0 0 24px; }

        /* Markdown pipeline output */
        .md-heading { margin: 12px 0 6px; }
        .md-list, .md-list-ordered { margin: 8px 0 8px 24px; }
        .md-quote {
            border-left: 3px solid var(--accent-purple);
            padding-left: 12px;
            color: var(--text-muted);
            margin: 8px 0;
        }
        .md-hr { border: none; border-top: 1px solid var(--border-color); margin: 12px 0; }

        .md-table-wrapper { overflow-x: auto; margin: 8px 0; }
        .md-table { border-collapse: collapse; width: 100%; }
        .md-table th, .md-table td {
            border: 1px solid var(--border-color);
            padding: 6px 10px;
            text-align: left;
        }
        .md-table th { background: var(--bg-tertiary); }

        .code-inline {
            font-family: var(--font-mono);
            font-size: 0.9em;
            background: var(--code-bg);
            padding: 2px 5px;
            border-radius: 4px;
        }

        .code-block-wrapper {
            margin: 10px 0;
            border: 1px solid var(--border-color);
            border-radius: 8px;
            overflow: hidden;
        }
        .code-block-header {
            display: flex;
            justify-content: space-between;
            padding: 6px 12px;
            background: var(--bg-tertiary);
            font-size: 12px;
        }
        .code-block-copy {
            background: none;
            border: none;
            color: var(--accent-blue);
            cursor: pointer;
            font-size: 12px;
        }
        .code-block {
            font-family: var(--font-mono);
            font-size: 14px;
            background: var(--code-bg);
            padding: 12px;
            overflow-x: auto;
        }

        /* Syntax colors */
        .code-block .keyword { color: var(--accent-purple); }
        .code-block .string { color: var(--accent-green); }
        .code-block .comment { color: var(--text-muted); font-style: italic; }
        .code-block .number { color: var(--accent-orange); }
        .code-block .function { color: var(--accent-blue); }

        .footer {
            padding: 16px 32px;
            border-top: 1px solid var(--border-color);
            font-size: 13px;
            color: var(--text-muted);
            text-align: center;
        }
    </style>
`

// exportScript wires the theme toggle and the per-block copy buttons.
const exportScript = `    <script>
        function toggleTheme() {
            document.body.classList.toggle("dark-theme");
            document.body.classList.toggle("light-theme");
        }
        document.querySelectorAll(".code-block-copy").forEach(function (btn) {
            btn.addEventListener("click", function () {
                var pre = btn.closest(".code-block-wrapper").querySelector("code");
                navigator.clipboard.writeText(pre.textContent).then(function () {
                    btn.textContent = "Copié !";
                    setTimeout(function () { btn.textContent = "Copier"; }, 2000);
                });
            });
        });
    </script>
`
