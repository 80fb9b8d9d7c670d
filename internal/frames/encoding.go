package frames

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"path"
	"strconv"
	"strings"

	"github.com/nlpodyssey/gopickle/pickle"
	"github.com/nlpodyssey/gopickle/types"
)

// Encoding identifies a container serialization.
type Encoding int

const (
	// EncodingJSON is the text container written as .json.
	EncodingJSON Encoding = iota + 1
	// EncodingPickle is the Python pickle container written as .pkl.
	EncodingPickle
)

// String returns the name of the encoding.
func (e Encoding) String() string {
	switch e {
	case EncodingJSON:
		return "json"
	case EncodingPickle:
		return "pickle"
	default:
		return "Encoding(" + strconv.Itoa(int(e)) + ")"
	}
}

// EncodingForPath returns the encoding implied by the suffix of p, which may
// be a file path or an s3:// URL.
func EncodingForPath(p string) (Encoding, error) {
	switch strings.ToLower(path.Ext(p)) {
	case ".json":
		return EncodingJSON, nil
	case ".pkl":
		return EncodingPickle, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedExtension, p)
	}
}

// Decode reads a container in the given encoding from r.
func Decode(r io.Reader, enc Encoding) (*Collection, error) {
	var (
		rec *record
		err error
	)
	switch enc {
	case EncodingJSON:
		rec, err = decodeJSON(r)
	case EncodingPickle:
		rec, err = decodePickle(r)
	default:
		return nil, fmt.Errorf("%w: unknown encoding %v", ErrFormat, enc)
	}
	if err != nil {
		return nil, err
	}
	return rec.collection()
}

func decodeJSON(r io.Reader) (*record, error) {
	var rec record
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return &rec, nil
}

// UnmarshalJSON accepts rows written either as strings or as lists of
// single glyph strings, which is how the converter writes them.
func (f *Frame) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	rows := make(Frame, len(raw))
	for i, r := range raw {
		r = bytes.TrimSpace(r)
		if len(r) != 0 && r[0] == '"' {
			if err := json.Unmarshal(r, &rows[i]); err != nil {
				return err
			}
			continue
		}
		var glyphs []string
		if err := json.Unmarshal(r, &glyphs); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		rows[i] = strings.Join(glyphs, "")
	}
	*f = rows
	return nil
}

func decodePickle(r io.Reader) (*record, error) {
	u := pickle.NewUnpickler(r)
	v, err := u.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	root, ok := v.(*types.Dict)
	if !ok {
		return nil, fmt.Errorf("%w: top level is %T, not a dict", ErrFormat, v)
	}

	var rec record
	for _, e := range *root {
		name, ok := e.Key.(string)
		if !ok {
			continue
		}
		switch name {
		case "fps":
			fps, err := pickleNumber(e.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: fps: %v", ErrFormat, err)
			}
			rec.FPS = &fps
		case "resolution":
			if e.Value == nil {
				continue
			}
			res, err := pickleNumber(e.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: resolution: %v", ErrFormat, err)
			}
			rec.Resolution = &res
		case "frames":
			frames, err := pickleFrames(e.Value)
			if err != nil {
				return nil, err
			}
			rec.Frames = frames
		}
	}
	return &rec, nil
}

func pickleFrames(v any) (map[string]Frame, error) {
	d, ok := v.(*types.Dict)
	if !ok {
		return nil, fmt.Errorf("%w: frames is %T, not a dict", ErrFormat, v)
	}
	frames := make(map[string]Frame, len(*d))
	for _, e := range *d {
		var key string
		switch k := e.Key.(type) {
		case string:
			key = k
		case int:
			key = strconv.Itoa(k)
		default:
			return nil, fmt.Errorf("%w: frame key %v has type %T", ErrFormat, e.Key, e.Key)
		}
		rows, ok := e.Value.(*types.List)
		if !ok {
			return nil, fmt.Errorf("%w: frame %s is %T, not a list", ErrFormat, key, e.Value)
		}
		f := make(Frame, 0, len(*rows))
		for i, row := range *rows {
			s, err := pickleRow(row)
			if err != nil {
				return nil, fmt.Errorf("%w: frame %s row %d: %v", ErrFormat, key, i, err)
			}
			f = append(f, s)
		}
		if _, dup := frames[key]; dup {
			return nil, fmt.Errorf("%w: duplicate frame key %s", ErrFormat, key)
		}
		frames[key] = f
	}
	return frames, nil
}

func pickleRow(v any) (string, error) {
	switch row := v.(type) {
	case string:
		return row, nil
	case *types.List:
		var sb strings.Builder
		for _, g := range *row {
			s, ok := g.(string)
			if !ok {
				return "", fmt.Errorf("glyph is %T, not a string", g)
			}
			sb.WriteString(s)
		}
		return sb.String(), nil
	default:
		return "", fmt.Errorf("row is %T, not a string or list", v)
	}
}

func pickleNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case bool:
		return 0, fmt.Errorf("bool is not a number")
	case *big.Int:
		f, _ := new(big.Float).SetInt(n).Float64()
		return f, nil
	default:
		return 0, fmt.Errorf("%T is not a number", v)
	}
}
