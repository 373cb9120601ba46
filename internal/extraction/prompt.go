package extraction

import "strings"

// buildInstruction returns the fixed instruction payload sent with every
// extraction call. The wording is part of the service contract, not of this
// design; keep edits coordinated with the response schema.
func buildInstruction() string {
	parts := []string{
		"ROLE: You are a forensic auditor of scientific data and an expert in protein engineering.",
		"Your mission is not merely to extract numbers but to build an irrefutable evidence case.",
		"",
		"OBJECTIVE: Extract kinetic data for enzyme variants with full traceability.",
		"",
		"EVIDENCE RULES (critical — data without evidence is discarded):",
		"1. For every activity measurement you MUST provide the complete `evidence` record.",
		"2. `raw_text_snippet`: copy the exact text fragment or table row the number came from.",
		"   It is used for automated literal search, so be verbatim, never paraphrase.",
		"3. `page_number`: the page of the document where the value appears; use 0 for",
		"   non-paginated sources such as spreadsheets or images.",
		"4. `confidence_score`: rate your certainty from 0.0 to 1.0. If you had to assume",
		"   anything (e.g. room temperature = 25C), lower the score.",
		"",
		"HIERARCHICAL EXTRACTION RULES:",
		"1. ENZYME (top level): identify every variant. Look for sequences in the",
		"   supplementary material; reconstruct mutant sequences only when certain.",
		"2. ACTIVITY (lower level): separate measurements clearly by time point, pH and",
		"   temperature. If the substrate is PET, state whether it is powder, film, etc.",
		"3. EXPRESSION AND Tm: intrinsic variant data; prefer DSF-derived Tm values.",
		"",
		"Report every kinetic value under `reported_metrics` with its type tag, the unit",
		"exactly as printed, and the standard deviation when given. If a figure holds",
		"relevant data you cannot read confidently, list it under",
		"`figures_requiring_digitization` instead of guessing.",
		"",
		"Return ONLY JSON matching the provided schema. Never output null; omit absent fields.",
	}
	return strings.Join(parts, "\n")
}
