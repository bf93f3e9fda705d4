package output

import (
	"encoding/json"
	"io"

	"github.com/jack-barr3tt/pex-formatter/src/common/types"
)

func WriteJSON(out io.Writer, events []types.Event) error {
	if events == nil {
		events = []types.Event{}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(events)
}
