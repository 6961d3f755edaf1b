package filehost

import (
	"encoding/json"
	"strconv"
)

// extractFiles is the tolerant fallback for envelopes that do not match
// the strict schema, typically because the host changed a field's type.
// It walks result.files manually and keeps whatever fields it can read;
// entries missing a title and file code entirely are skipped.
func extractFiles(body []byte) ([]fileItem, bool) {
	var root map[string]any
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, false
	}
	result, ok := root["result"].(map[string]any)
	if !ok {
		return nil, false
	}
	rawFiles, ok := result["files"].([]any)
	if !ok {
		return nil, false
	}

	files := make([]fileItem, 0, len(rawFiles))
	for _, rf := range rawFiles {
		m, ok := rf.(map[string]any)
		if !ok {
			continue
		}
		f := fileItem{
			Title:     stringField(m, "title"),
			FileCode:  stringField(m, "file_code"),
			Thumbnail: stringField(m, "thumbnail"),
			Length:    intField(m, "length"),
		}
		if f.Title == "" && f.FileCode == "" {
			continue
		}
		files = append(files, f)
	}
	return files, true
}

func stringField(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

// intField accepts both JSON numbers and numeric strings; hosts have
// been seen reporting length either way.
func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
