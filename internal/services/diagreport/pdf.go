package diagreport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"koralai-host/internal/app"
	"koralai-host/internal/domain/model"
	"koralai-host/internal/platform/hash"
	"koralai-host/internal/services/journalverify"

	"github.com/phpdave11/gofpdf"
)

// 宿主诊断 PDF 报告
//
// 用于排查“为什么打开的是远程首页而不是本地 UI”一类问题：
// 把生效配置、设置文档、启动解析结果、最近的启动记录和链校验结果固化成一个文件。

// Input 是生成报告所需的全部数据，由调用方准备好。
type Input struct {
	Config         app.Config
	SettingsPath   string
	Settings       model.Settings
	Target         model.Target
	EntryPointPath string
	Launches       []model.LaunchRecord
	Verify         *journalverify.Result
	Note           string
}

type Result struct {
	PDFPath     string   `json:"pdf_path"`
	PDFSHA256   string   `json:"pdf_sha256"`
	Warnings    []string `json:"warnings,omitempty"`
	GeneratedAt int64    `json:"generated_at"`
}

const maxLaunchRows = 50

// Generate 渲染 PDF 到 outPath（父目录按需创建）并返回文件摘要。
func Generate(ctx context.Context, in Input, outPath string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	outPath = strings.TrimSpace(outPath)
	if outPath == "" {
		return nil, fmt.Errorf("output path is required")
	}

	warnings := []string{}
	if in.Target.Kind == model.TargetURL {
		warnings = append(warnings, "local ui entry point not found; fallback homepage in use")
	}
	if v, ok := in.Settings.Homepage(); !ok {
		warnings = append(warnings, "settings document has no homepage; built-in default applies")
	} else if strings.TrimSpace(v) == "" {
		warnings = append(warnings, "settings homepage is empty; fallback navigates to a blank url")
	}
	if in.Verify != nil && !in.Verify.OK {
		warnings = append(warnings, fmt.Sprintf("launch journal chain verification failed: %d record(s)", in.Verify.Failed))
	}

	launches := in.Launches
	if len(launches) > maxLaunchRows {
		launches = launches[len(launches)-maxLaunchRows:]
	}

	now := time.Now().Unix()
	pdf, utf8OK := buildPDF(in, launches, warnings, now)
	if !utf8OK {
		warnings = append(warnings, "pdf utf8 font not available; non-ascii text may be replaced with '?'")
	}

	if dir := filepath.Dir(outPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir report dir: %w", err)
		}
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}

	sum, _, err := hash.File(outPath)
	if err != nil {
		return nil, fmt.Errorf("sha256 pdf: %w", err)
	}

	return &Result{
		PDFPath:     outPath,
		PDFSHA256:   sum,
		Warnings:    warnings,
		GeneratedAt: now,
	}, nil
}

func buildPDF(in Input, launches []model.LaunchRecord, warnings []string, generatedAt int64) (*gofpdf.Fpdf, bool) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(true, 14)
	pdf.SetTitle("Koralai Host - Diagnostic Report", false)

	fontFamily, utf8OK := initPDFUnicodeFont(pdf)

	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 9, "Koralai Host - Diagnostic Report", "", 1, "L", false, 0, "")

	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated at: %s", fmtTime(generatedAt)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Version: %s (%s)", app.Version, app.Commit), "", 1, "L", false, 0, "")
	if strings.TrimSpace(in.Note) != "" {
		pdf.MultiCell(0, 5, fmt.Sprintf("Note: %s", safeText(in.Note, utf8OK)), "", "L", false)
	}
	pdf.Ln(2)

	sectionTitle(pdf, fontFamily, "1. Startup Target")
	kv(pdf, fontFamily, utf8OK, "Kind", string(in.Target.Kind))
	kv(pdf, fontFamily, utf8OK, "Value", in.Target.Value)
	kv(pdf, fontFamily, utf8OK, "Entry Point", in.EntryPointPath)
	pdf.Ln(2)

	localWarnings := append([]string{}, warnings...)
	if !utf8OK {
		localWarnings = append(localWarnings, "pdf utf8 font not available; non-ascii text may be replaced with '?'")
	}
	if len(localWarnings) > 0 {
		sectionTitle(pdf, fontFamily, "Warnings")
		pdf.SetFont(fontFamily, "", 9)
		pdf.SetTextColor(120, 80, 0)
		for _, w := range localWarnings {
			pdf.MultiCell(0, 4.5, "- "+safeText(w, utf8OK), "", "L", false)
		}
		pdf.Ln(2)
	}

	sectionTitle(pdf, fontFamily, "2. Configuration")
	cfg := in.Config
	kv(pdf, fontFamily, utf8OK, "Window Title", cfg.WindowTitle)
	kv(pdf, fontFamily, utf8OK, "Window Size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))
	kv(pdf, fontFamily, utf8OK, "Settings File", firstNonEmpty(in.SettingsPath, cfg.SettingsFile))
	kv(pdf, fontFamily, utf8OK, "Default Home", cfg.DefaultHomepage)
	kv(pdf, fontFamily, utf8OK, "Journal DB", cfg.JournalDB)
	kv(pdf, fontFamily, utf8OK, "Backend", cfg.Backend)
	pdf.Ln(2)

	sectionTitle(pdf, fontFamily, "3. Settings Document")
	if len(in.Settings) == 0 {
		emptyLine(pdf, fontFamily)
	} else {
		keys := make([]string, 0, len(in.Settings))
		for k := range in.Settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			kv(pdf, fontFamily, utf8OK, k, in.Settings[k])
		}
	}
	pdf.Ln(2)

	sectionTitle(pdf, fontFamily, "4. Launch Journal (Recent)")
	if in.Verify != nil {
		status := "OK"
		if !in.Verify.OK {
			status = fmt.Sprintf("FAILED (%d/%d)", in.Verify.Failed, in.Verify.Total)
		}
		kv(pdf, fontFamily, utf8OK, "Chain Status", status)
		kv(pdf, fontFamily, utf8OK, "Last Hash", in.Verify.LastChainHash)
	}
	if len(launches) == 0 {
		emptyLine(pdf, fontFamily)
	} else {
		for i := len(launches) - 1; i >= 0; i-- {
			l := launches[i]
			pdf.SetFont(fontFamily, "B", 10)
			pdf.SetTextColor(20, 20, 20)
			pdf.MultiCell(0, 5, fmt.Sprintf("%s | %s | %s", fmtTime(l.OccurredAt), safeText(string(l.TargetKind), utf8OK), safeText(l.Backend, utf8OK)), "", "L", false)
			pdf.SetFont(fontFamily, "", 9)
			pdf.SetTextColor(40, 40, 40)
			pdf.MultiCell(0, 4.5, fmt.Sprintf("target: %s", safeText(l.Target, utf8OK)), "", "L", false)
			pdf.MultiCell(0, 4.5, fmt.Sprintf("chain: %s", safeText(l.ChainHash, utf8OK)), "", "L", false)
			pdf.Ln(1)
		}
	}

	return pdf, utf8OK
}

func sectionTitle(pdf *gofpdf.Fpdf, fontFamily string, title string) {
	pdf.SetFont(fontFamily, "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pdf.GetX(), pdf.GetY(), 196, pdf.GetY())
	pdf.Ln(2)
}

func emptyLine(pdf *gofpdf.Fpdf, fontFamily string) {
	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(0, 5, "(empty)", "", "L", false)
}

func kv(pdf *gofpdf.Fpdf, fontFamily string, utf8OK bool, key string, value string) {
	if strings.TrimSpace(value) == "" {
		value = "-"
	}
	pdf.SetFont(fontFamily, "B", 10)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(36, 5.2, safeText(key, utf8OK)+":", "", 0, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(20, 20, 20)
	pdf.MultiCell(0, 5.2, safeText(value, utf8OK), "", "L", false)
}

func fmtTime(ts int64) string {
	if ts <= 0 {
		return "-"
	}
	return time.Unix(ts, 0).Format("2006-01-02 15:04:05")
}

// safeText 去掉控制字符；没有 UTF-8 字体时把非 ASCII 替换为 '?'，保证一定能出 PDF。
func safeText(s string, utf8OK bool) string {
	s = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(s)
	s = strings.TrimSpace(s)
	if utf8OK {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 32 && r <= 126 {
			b.WriteRune(r)
		} else {
			b.WriteRune('?')
		}
	}
	return b.String()
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

// initPDFUnicodeFont 尝试加载 UTF-8 TrueType 字体：
// 先看 KORALAI_PDF_FONT，再按平台常见路径探测，都失败就回退 Helvetica。
func initPDFUnicodeFont(pdf *gofpdf.Fpdf) (family string, utf8OK bool) {
	const familyName = "unicode"
	candidates := []string{}

	if v := strings.TrimSpace(os.Getenv("KORALAI_PDF_FONT")); v != "" {
		candidates = append(candidates, v)
	}

	switch runtime.GOOS {
	case "darwin":
		candidates = append(candidates,
			"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
			"/Library/Fonts/Arial Unicode.ttf",
		)
	case "windows":
		candidates = append(candidates,
			`C:\Windows\Fonts\arialuni.ttf`,
			`C:\Windows\Fonts\arial.ttf`,
		)
	default:
		candidates = append(candidates,
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/TTF/DejaVuSans.ttf",
		)
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		pdf.AddUTF8Font(familyName, "", p)
		if pdf.Err() {
			pdf.ClearError()
			continue
		}
		// 只有一个字体文件时 B 样式也指向它，避免 SetFont(...,"B",...) 报错
		pdf.AddUTF8Font(familyName, "B", p)
		if pdf.Err() {
			pdf.ClearError()
		}
		return familyName, true
	}

	return "Helvetica", false
}
