package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/pefman/hd2-armory/internal/enemies"
)

// RunEnemyParse converts the raw dump at in into an enemy document written to out.
func RunEnemyParse(in, out string, stdout io.Writer) error {
	if in == "" || out == "" {
		return usageError("both -i and -o are required")
	}
	raw, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("read %s: %w", in, err)
	}
	doc, err := enemies.TransformDump(raw)
	if err != nil {
		return fmt.Errorf("transform %s: %w", in, err)
	}
	b, err := doc.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(stdout, "Wrote %d units across %d factions to %s\n", doc.Units(), len(doc), out)
	return nil
}
