package anthropic

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// parseProfileFacts decodes the outermost JSON object in a model reply.
// Text around the braces (prose, code fences) is ignored.
func parseProfileFacts(text string) (map[string]string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, eris.New("analysis reply contains no JSON object")
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, eris.Wrap(err, "decode analysis reply")
	}

	facts := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			facts[key] = v
		case float64:
			facts[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			facts[key] = strconv.FormatBool(v)
		}
	}
	return facts, nil
}
