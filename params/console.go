package params

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
)

// Console reads one graphql request per line from r and writes each result
// as a line of JSON to w. It returns when r is exhausted or ctx is done.
func Console(ctx context.Context, s *Store, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	enc := json.NewEncoder(w)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := enc.Encode(s.Query(line, nil)); err != nil {
			return err
		}
	}
	return sc.Err()
}
