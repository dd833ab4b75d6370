package llm

import "strings"

// RepairJSON massages near-valid model output into parseable JSON: markdown
// code fences are stripped, text around the outermost object or array is
// discarded, and trailing commas are removed. It never fails; callers find
// out from the parser whether the result is usable.
func RepairJSON(text string) string {
	text = stripFences(strings.TrimSpace(text))
	text = sliceOutermost(text)
	text = stripTrailingCommas(text)
	return strings.TrimSpace(text)
}

func stripFences(text string) string {
	for _, fence := range []string{"```json", "```"} {
		if strings.HasPrefix(text, fence) {
			text = strings.TrimPrefix(text, fence)
			if idx := strings.LastIndex(text, "```"); idx >= 0 {
				text = text[:idx]
			}
			return strings.TrimSpace(text)
		}
	}
	return text
}

// sliceOutermost cuts the text down to the first { (or [) through the
// matching last } (or ]), dropping prose the model wrapped around the JSON.
func sliceOutermost(text string) string {
	objStart := strings.Index(text, "{")
	arrStart := strings.Index(text, "[")

	start, closer := objStart, "}"
	if objStart < 0 || (arrStart >= 0 && arrStart < objStart) {
		start, closer = arrStart, "]"
	}
	if start < 0 {
		return text
	}

	end := strings.LastIndex(text, closer)
	if end <= start {
		return text
	}
	return text[start : end+1]
}

// stripTrailingCommas removes commas that directly precede a closing brace
// or bracket, skipping string literals.
func stripTrailingCommas(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))

	inString := false
	escaped := false
	pendingComma := false
	var pendingWS strings.Builder

	flush := func(withComma bool) {
		if withComma && pendingComma {
			sb.WriteByte(',')
		}
		sb.WriteString(pendingWS.String())
		pendingComma = false
		pendingWS.Reset()
	}

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if inString {
			sb.WriteByte(ch)
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			flush(true)
			inString = true
			sb.WriteByte(ch)
		case ',':
			flush(true)
			pendingComma = true
		case ' ', '\t', '\n', '\r':
			pendingWS.WriteByte(ch)
		case '}', ']':
			flush(false) // drop the comma right before a closer
			sb.WriteByte(ch)
		default:
			flush(true)
			sb.WriteByte(ch)
		}
	}
	flush(true)

	return sb.String()
}
