package percept

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadLabels reads the label set the classifier model was trained on from
// the given text file.  It should contain one label per line, blank lines
// are skipped.  The line order must match the model's score vector order.
func LoadLabels(file string) ([]string, error) {

	f, err := os.Open(file)

	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	defer f.Close()

	scanner := bufio.NewScanner(f)

	var labels []string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		labels = append(labels, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return labels, nil
}
