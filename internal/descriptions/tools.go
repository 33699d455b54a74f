// Package descriptions holds the long-form MCP tool descriptions.
package descriptions

// Tool descriptions with practical examples and use cases

const (
	AnalyzeFieldsDescription = `Detect and classify every form field in a PDF document.

**When to use:** Need to know what a form asks for: field names, types, positions, and how each field was detected.

**Why it's useful:** Works on both interactive forms (AcroForm widgets) and flat forms that only draw boxes, underlines and "Label:" prompts. Overlapping detections are merged so each field appears once, ordered top-to-bottom per page.

**Field types:** Text, Checkbox, Radio Button, Dropdown, Signature, Button.

**Examples:**
• Inventory a form: "Analyze tax-form.pdf and list every field"
• Prepare autofill: "Get the field names and types from application.pdf"
• Flat scans of office forms: "Find the fill-in blanks in printed-survey.pdf"

**Options:** disable_layout_inference restricts the run to interactive widgets; iou_merge_threshold and min_confidence tune merging and inference sensitivity.

**Best practices:** Validate the file first with pdf_validate_file. Check the warnings list: the analyzer never aborts on a damaged page, it reports what it skipped.`

	ValidateFileDescription = `Validate that a file is an analyzable PDF.

**When to use:** Before analysis, to confirm a file exists, has a .pdf extension, fits the size limit and parses as a PDF.

**Why it's useful:** A failed validation names the reason (missing, empty, too large, encrypted, corrupt) instead of failing later mid-analysis.

**Examples:**
• Pre-flight check: "Validate upload.pdf before analyzing it"
• Triage a batch: "Which of these files are actually PDFs?"`

	SearchDirectoryDescription = `Search for PDF files in a directory with optional fuzzy matching.

**When to use:** Need to discover which PDF documents are available before analyzing them.

**Why it's useful:** Recursively lists valid PDFs with size and modification time, and fuzzy-matches queries against filenames ("tax 2025" finds Tax_Form_2025.pdf).

**Examples:**
• List everything: "Show all PDFs in the forms directory"
• Find one form: "Search for the consent form"`

	RenderOverlayDescription = `Render one page's detected fields as a visual overlay PDF.

**When to use:** Need to see where the analyzer found fields: each detection is drawn as a colored box with its name and type on a blank page-sized canvas.

**Why it's useful:** Makes detection quality reviewable at a glance; each field type gets its own color.

**Examples:**
• Review detections: "Render page 1 of application.pdf with its fields marked"
• Debug a flat form: "Show what was detected on page 3 of scan.pdf"

**Note:** The overlay is written next to the source file unless output_path is given.`

	ServerInfoDescription = `Get server information, configuration and the available tool inventory.

**When to use:** Starting a session, to learn the configured document directory, file size limit and which tools are registered.

**Examples:**
• Orientation: "What directory is the field analysis server watching?"`
)
