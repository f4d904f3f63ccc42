package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// EncounterReader streams the EHR encounters JSON file, a single array of
// encounter documents, and emits one Encounter at a time. Only one
// document is in memory at once: decoded, converted, then discarded.
type EncounterReader struct {
	file    *os.File
	decoder *json.Decoder
	itemNum int64
	done    bool
}

func NewEncounterReader(path string) (*EncounterReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	bufReader := bufio.NewReaderSize(file, 256*1024)

	// Skip UTF-8 BOM if present
	bom, err := bufReader.Peek(3)
	if err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		bufReader.Discard(3)
	}

	r := &EncounterReader{
		file:    file,
		decoder: json.NewDecoder(bufReader),
	}

	tok, err := r.decoder.Token()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read opening bracket: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		file.Close()
		return nil, fmt.Errorf("expected JSON array, got %v", tok)
	}

	return r, nil
}

// Next returns the next encounter document, or io.EOF when the array ends.
func (r *EncounterReader) Next() (Encounter, error) {
	if r.done {
		return Encounter{}, io.EOF
	}
	if !r.decoder.More() {
		// Consume the closing ']'
		if _, err := r.decoder.Token(); err != nil && err != io.EOF {
			return Encounter{}, fmt.Errorf("read closing bracket: %w", err)
		}
		r.done = true
		return Encounter{}, io.EOF
	}

	var enc Encounter
	if err := r.decoder.Decode(&enc); err != nil {
		return Encounter{}, fmt.Errorf("decode encounter %d: %w", r.itemNum+1, err)
	}
	r.itemNum++
	return enc, nil
}

// ItemNum returns the number of documents decoded so far.
func (r *EncounterReader) ItemNum() int64 { return r.itemNum }

func (r *EncounterReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// ReadEncounters loads an entire EHR extract into memory.
func ReadEncounters(path string) ([]Encounter, error) {
	r, err := NewEncounterReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var encounters []Encounter
	for {
		enc, err := r.Next()
		if err == io.EOF {
			return encounters, nil
		}
		if err != nil {
			return nil, err
		}
		encounters = append(encounters, enc)
	}
}
