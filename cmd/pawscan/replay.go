package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bmharper/cimg/v2"
	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/pawscan/server/scan"
	"github.com/google/uuid"
)

// One line of a recording
type record struct {
	scan.FrameInput
	JPEG []byte `json:"jpeg,omitempty"`
}

// replay feeds a JSONL recording through a fresh session. Out of order frames
// are skipped, like a live capture would drop them.
func replay(logger logs.Log, cfg scan.Config, r io.Reader, sampleRate int) (*scan.Result, error) {
	sess := scan.NewSession(logger, uuid.NewString(), cfg)
	if sampleRate != 0 {
		// On failure the session logs it and stays visual-only
		sess.AttachAudio(sampleRate)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 32*1024*1024)
	line := 0
	skipped := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		rec := record{}
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("line %v: %w", line, err)
		}
		if len(rec.JPEG) != 0 {
			img, err := cimg.Decompress(rec.JPEG)
			if err != nil {
				return nil, fmt.Errorf("line %v: invalid JPEG: %w", line, err)
			}
			rec.Image = img
		}
		if _, err := sess.Step(rec.FrameInput); err != nil {
			if scan.IsTransient(err) {
				skipped++
				continue
			}
			return nil, fmt.Errorf("line %v: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if skipped != 0 {
		logger.Warnf("Skipped %v out of order frames", skipped)
	}
	return sess.Stop(), nil
}
