package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nestorcad/viewercore/internal/dispatcher"
	"github.com/nestorcad/viewercore/internal/geo"
	"github.com/nestorcad/viewercore/internal/util"
	"github.com/nestorcad/viewercore/pkg/core"
)

// replayStats counts what a script did.
type replayStats struct {
	Commands int
	Failed   int
}

// replay feeds every command line of in to d. Blank lines and lines starting
// with # are skipped. Each result is echoed to out as one JSON line; a
// failing command is reported and the replay continues.
func replay(d *dispatcher.Dispatcher, in io.Reader, out io.Writer) (replayStats, error) {
	var stats replayStats
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := util.SplitFields(text)
		stats.Commands++

		result, err := d.Dispatch(dispatcher.Event{Command: fields[0], Args: fields[1:]})
		if err != nil {
			stats.Failed++
			fmt.Fprintf(out, "%d %s error: %v\n", line, fields[0], err)
			continue
		}
		if result == nil {
			continue
		}
		data, err := json.Marshal(result)
		if err != nil {
			return stats, fmt.Errorf("line %d: encode result: %w", line, err)
		}
		fmt.Fprintf(out, "%d %s %s\n", line, fields[0], data)
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("read script: %w", err)
	}
	return stats, nil
}

// writeScene prints one row per entity with its footprint as WKT.
func writeScene(out io.Writer, scene core.Scene) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "level %s\tversion %d\tentities %d\n", scene.LevelID, scene.Version, len(scene.Entities))
	for _, e := range scene.Entities {
		wkt := ""
		if e.Geometry != nil {
			wkt = geo.Footprint(e.Geometry).AsText()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.Type(), e.Layer, wkt)
	}
	return w.Flush()
}
