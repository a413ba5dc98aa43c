// Package saveload writes the pools of a world to a stream and reads them
// back with every entity at the index it was saved with.
//
// A save is a zstd stream holding one JSON header line followed by a gob
// encoded body. The header is checked against an embedded JSON schema
// before the body is decoded.
package saveload

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/plus3/dunepool/pool"
	"github.com/plus3/dunepool/tile"
	"go.uber.org/zap"
)

// Version is the format version Write produces.
const Version = 1

// ErrUnsupportedVersion reports a save written by another format version.
var ErrUnsupportedVersion = errors.New("unsupported save version")

type Header struct {
	Version    int    `json:"version"`
	Mode       string `json:"capacity_mode"`
	Houses     int    `json:"houses"`
	Structures int    `json:"structures"`
	Units      int    `json:"units"`
	Teams      int    `json:"teams"`
}

var sharedSlots = []uint16{pool.StructureIndexWall, pool.StructureIndexSlab2x2, pool.StructureIndexSlab1x1}

type bodyV1 struct {
	Houses     []pool.House
	Structures []pool.Structure
	Units      []pool.Unit
	Teams      []pool.Team
	Map        tile.Map
}

// Write saves every live entity of w, the shared structure records and
// the map.
func Write(out io.Writer, w *pool.World) error {
	body := bodyV1{Map: *w.Map()}
	for _, index := range w.Houses().LiveIndices() {
		body.Houses = append(body.Houses, *w.Houses().Get(index))
	}
	for _, index := range w.Structures().LiveIndices() {
		body.Structures = append(body.Structures, *w.Structures().Get(index))
	}
	for _, index := range sharedSlots {
		body.Structures = append(body.Structures, *w.Structures().Get(index))
	}
	for _, index := range w.Units().LiveIndices() {
		body.Units = append(body.Units, *w.Units().Get(index))
	}
	for _, index := range w.Teams().LiveIndices() {
		body.Teams = append(body.Teams, *w.Teams().Get(index))
	}

	hdr := Describe(w)

	enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(enc, 64*1024)
	hb, err := json.Marshal(hdr)
	if err != nil {
		enc.Close()
		return fmt.Errorf("encode header: %w", err)
	}
	if _, err := bw.Write(hb); err != nil {
		enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		enc.Close()
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&body); err != nil {
		enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Describe returns the header Write would produce for w.
func Describe(w *pool.World) Header {
	return Header{
		Version:    Version,
		Mode:       w.Policy().Mode().String(),
		Houses:     w.Houses().Len(),
		Structures: w.Structures().Len() + len(sharedSlots),
		Units:      w.Units().Len(),
		Teams:      w.Teams().Len(),
	}
}

// Read replaces the contents of w with a save. Every entity is allocated
// at its saved index with validation relaxed, then the live lists are
// rebuilt. A save holding indices the configured capacity cannot address
// fails with an error wrapping pool.ErrIncompatibleSave. A load that fails
// part way leaves w initialised and empty.
func Read(in io.Reader, w *pool.World) (Header, error) {
	dec, err := zstd.NewReader(in)
	if err != nil {
		return Header{}, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)
	hdr, err := readHeader(br)
	if err != nil {
		return hdr, err
	}

	var body bodyV1
	if err := gob.NewDecoder(br).Decode(&body); err != nil {
		return hdr, fmt.Errorf("gob decode: %w", err)
	}

	restore := w.Validation().Relax()
	defer restore()

	w.Init()
	if err := load(w, &body); err != nil {
		w.Init()
		if errors.Is(err, pool.ErrIncompatibleSave) {
			w.Logger().Warn("incompatible save",
				zap.String("saved_mode", hdr.Mode),
				zap.Stringer("mode", w.Policy().Mode()),
				zap.Error(err))
		}
		return hdr, err
	}
	w.Recount()

	w.Logger().Debug("save loaded",
		zap.Int("houses", len(body.Houses)),
		zap.Int("structures", len(body.Structures)),
		zap.Int("units", len(body.Units)),
		zap.Int("teams", len(body.Teams)))
	return hdr, nil
}

func readHeader(br *bufio.Reader) (Header, error) {
	var hdr Header
	line, err := br.ReadBytes('\n')
	if err != nil {
		return hdr, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &hdr); err != nil {
		return hdr, fmt.Errorf("parse header: %w", err)
	}
	if hdr.Version != Version {
		return hdr, fmt.Errorf("%w: %d", ErrUnsupportedVersion, hdr.Version)
	}
	if err := validateHeader(line); err != nil {
		return hdr, err
	}
	return hdr, nil
}

func load(w *pool.World, body *bodyV1) error {
	for _, saved := range body.Houses {
		if err := checkIndex(w, pool.KindHouse, saved.Index); err != nil {
			return err
		}
		h := w.Houses().Allocate(pool.HouseType(saved.Index))
		if h == nil {
			return fmt.Errorf("load house %d: slot taken", saved.Index)
		}
		*h = saved
	}

	for _, saved := range body.Structures {
		if err := checkIndex(w, pool.KindStructure, saved.Index); err != nil {
			return err
		}
		typ := saved.StructureType()
		if typ >= pool.StructureMax || saved.HouseID >= pool.HouseMax {
			return fmt.Errorf("load structure %d: bad type %d or owner %d", saved.Index, saved.Type, saved.HouseID)
		}
		if slot, shared := pool.SharedSlot(typ); shared != pool.IsSharedSlot(saved.Index) || (shared && slot != saved.Index) {
			return fmt.Errorf("load structure %d: %s in the wrong slot", saved.Index, typ)
		}
		s := w.Structures().Allocate(saved.Index, typ, saved.HouseID)
		if s == nil {
			return fmt.Errorf("load structure %d: slot taken", saved.Index)
		}
		*s = saved
	}

	for _, saved := range body.Units {
		if err := checkIndex(w, pool.KindUnit, saved.Index); err != nil {
			return err
		}
		typ := saved.UnitType()
		if typ >= pool.UnitMax || saved.HouseID >= pool.HouseMax {
			return fmt.Errorf("load unit %d: bad type %d or owner %d", saved.Index, saved.Type, saved.HouseID)
		}
		u := w.Units().Allocate(saved.Index, typ, saved.HouseID)
		if u == nil {
			return fmt.Errorf("load unit %d: slot taken", saved.Index)
		}
		*u = saved
	}

	for _, saved := range body.Teams {
		if err := checkIndex(w, pool.KindTeam, saved.Index); err != nil {
			return err
		}
		if saved.HouseID >= pool.HouseMax {
			return fmt.Errorf("load team %d: bad owner %d", saved.Index, saved.HouseID)
		}
		t := w.Teams().Allocate(saved.Index, saved.HouseID)
		if t == nil {
			return fmt.Errorf("load team %d: slot taken", saved.Index)
		}
		*t = saved
	}

	*w.Map() = body.Map
	return nil
}

// checkIndex rejects indices no capacity mode can address and reports
// those only a larger mode can address as incompatible.
func checkIndex(w *pool.World, kind pool.Kind, index uint16) error {
	var err error
	switch kind {
	case pool.KindHouse:
		_, err = w.Houses().Lookup(index)
	case pool.KindStructure:
		_, err = w.Structures().Lookup(index)
	case pool.KindUnit:
		_, err = w.Units().Lookup(index)
	case pool.KindTeam:
		_, err = w.Teams().Lookup(index)
	default:
		panic(fmt.Sprintf("saveload: unknown kind %s", kind))
	}
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	return nil
}

// WriteFile saves w to path, replacing any existing file once the save is
// complete.
func WriteFile(path string, w *pool.World) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, w); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadFile loads the save at path into w.
func ReadFile(path string, w *pool.World) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()
	return Read(f, w)
}
