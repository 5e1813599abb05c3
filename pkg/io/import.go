package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/visionboard/pkg/board"
	"github.com/matzehuels/visionboard/pkg/interaction"
)

// ReadURLs reads a URL list from r.
func ReadURLs(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read urls: %w", err)
	}
	return urls, nil
}

// ImportURLs reads a URL list file. A path of "-" reads standard input.
func ImportURLs(path string) ([]string, error) {
	if path == "-" {
		return ReadURLs(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadURLs(f)
}

// GestureEvent is one scripted event.
type GestureEvent struct {
	interaction.Wire `yaml:",inline"`
	// Item is the 1-based position of the target in the URL list.
	Item int `yaml:"item,omitempty" json:"item,omitempty"`
}

// Script is a decoded gesture script.
type Script struct {
	Origin interaction.Point `yaml:"origin" json:"origin"`
	Events []GestureEvent    `yaml:"events" json:"events"`
}

// ReadGestures decodes a gesture script. A bare list of events is accepted
// as a script without origin.
func ReadGestures(r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read gestures: %w", err)
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		var events []GestureEvent
		if lerr := yaml.Unmarshal(data, &events); lerr != nil {
			return nil, fmt.Errorf("decode gestures: %w", err)
		}
		s.Events = events
	}
	return &s, nil
}

// ImportGestures reads a gesture script file.
func ImportGestures(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGestures(f)
}

// Resolve converts the script into typed events for b, mapping 1-based
// item positions to item ids.
func (s *Script) Resolve(b *board.Board) ([]interaction.Event, error) {
	items := b.Items()
	wires := make([]interaction.Wire, len(s.Events))
	for i, ev := range s.Events {
		w := ev.Wire
		if w.ItemID == 0 && ev.Item != 0 {
			if ev.Item < 1 || ev.Item > len(items) {
				return nil, fmt.Errorf("event %d: item %d out of range 1..%d", i, ev.Item, len(items))
			}
			w.ItemID = items[ev.Item-1].ID
		}
		wires[i] = w
	}
	return interaction.DecodeAll(wires)
}

// ReadBoardJSON restores a board from a snapshot. Snapshots that break the
// board invariants are rejected; see [board.Snapshot.Sanitize].
func ReadBoardJSON(r io.Reader) (*board.Board, error) {
	var s board.Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := s.Sanitize(); err != nil {
		return nil, err
	}
	return board.Restore(s), nil
}

// ImportBoardJSON reads a board snapshot file.
func ImportBoardJSON(path string) (*board.Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadBoardJSON(f)
}
