package output

import (
	"fmt"
	"io"

	"github.com/jack-barr3tt/pex-formatter/src/common/types"
	"github.com/xuri/excelize/v2"
)

const SheetName = "PEX"

func WriteXLSX(out io.Writer, events []types.Event) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return err
	}

	header := make([]any, len(types.Columns))
	for i, c := range types.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write XLSX header: %w", err)
	}

	for i, ev := range events {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, ev.Values()); err != nil {
			return fmt.Errorf("failed to write XLSX row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}

	return f.Write(out)
}
