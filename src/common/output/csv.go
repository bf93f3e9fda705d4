package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jack-barr3tt/pex-formatter/src/common/types"
)

func WriteCSV(out io.Writer, events []types.Event) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(types.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, ev := range events {
		if err := writer.Write(ev.Row()); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
