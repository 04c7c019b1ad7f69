package browser

import (
	"encoding/json"
	"fmt"
)

// maxSnapshotElements bounds how much of the page is handed to the model.
const maxSnapshotElements = 50

// Element is one interactive control found on an application page.
type Element struct {
	Tag         string `json:"tag"`
	Type        string `json:"type,omitempty"`
	Name        string `json:"name,omitempty"`
	ID          string `json:"id,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Text        string `json:"text,omitempty"`
	Label       string `json:"label,omitempty"`
}

// snapshotScript collects visible form controls from the live DOM. Hidden
// elements are filtered out in the page so the snapshot stays small.
var snapshotScript = fmt.Sprintf(`() => {
	const controls = Array.from(document.querySelectorAll('input, textarea, select, button'));
	return controls
		.filter((el) => {
			if (el.type === 'hidden') return false;
			const style = window.getComputedStyle(el);
			return style.display !== 'none' && style.visibility !== 'hidden' && el.offsetParent !== null;
		})
		.slice(0, %d)
		.map((el) => ({
			tag: el.tagName.toLowerCase(),
			type: el.type || '',
			name: el.name || '',
			id: el.id || '',
			placeholder: el.placeholder || '',
			text: (el.textContent || '').trim().slice(0, 80),
			label: el.labels && el.labels.length ? (el.labels[0].textContent || '').trim().slice(0, 80) : '',
		}));
}`, maxSnapshotElements)

// decodeSnapshot converts the raw Evaluate result into typed elements. The
// round trip through JSON absorbs the map[string]interface{} shape the
// driver hands back.
func decodeSnapshot(raw any) ([]Element, error) {
	if raw == nil {
		return nil, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	var elements []Element
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	if len(elements) > maxSnapshotElements {
		elements = elements[:maxSnapshotElements]
	}

	return elements, nil
}
