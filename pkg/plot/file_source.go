package plot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/StudioSol/set"
	"github.com/samber/lo"

	"github.com/raykavin/chartspec/pkg/core"
)

const payloadExt = ".json"

// FileSource serves payloads stored as <pair>.json files in a directory
type FileSource struct {
	dir    string
	orders core.OrderStorage
}

// FileSourceOption configures a FileSource
type FileSourceOption func(*FileSource)

// WithStoredOrders adds the FILLED orders of each pair from storage as loose orders,
// skipping IDs the payload already carries
func WithStoredOrders(storage core.OrderStorage) FileSourceOption {
	return func(s *FileSource) {
		s.orders = storage
	}
}

func NewFileSource(dir string, options ...FileSourceOption) *FileSource {
	source := &FileSource{dir: dir}
	for _, option := range options {
		option(source)
	}
	return source
}

// Pairs lists the payload files of the directory, sorted
func (s *FileSource) Pairs(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read payload dir: %w", err)
	}

	pairs := lo.FilterMap(entries, func(entry fs.DirEntry, _ int) (string, bool) {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != payloadExt {
			return "", false
		}
		return strings.TrimSuffix(name, payloadExt), true
	})
	sort.Strings(pairs)

	return pairs, nil
}

// Payload decodes the payload file of pair
func (s *FileSource) Payload(_ context.Context, pair string) (Payload, error) {
	if pair == "" || strings.ContainsAny(pair, `/\`) || strings.HasPrefix(pair, ".") {
		return Payload{}, fmt.Errorf("%q: %w", pair, core.ErrPairNotFound)
	}

	payload, err := ReadPayload(filepath.Join(s.dir, pair+payloadExt))
	if errors.Is(err, fs.ErrNotExist) {
		return Payload{}, fmt.Errorf("%s: %w", pair, core.ErrPairNotFound)
	}
	if err != nil {
		return Payload{}, err
	}

	if s.orders != nil {
		orders, err := s.orders.Orders(core.WithPair(pair), core.WithStatus(core.OrderStatusTypeFilled))
		if err != nil {
			return Payload{}, fmt.Errorf("%s: stored orders: %w", pair, err)
		}
		known := payloadOrderIDs(payload)
		for _, order := range orders {
			if known.InArray(order.ID) {
				continue
			}
			known.Add(order.ID)
			payload.Orders = append(payload.Orders, *order)
		}
	}

	return payload, nil
}

// payloadOrderIDs collects the IDs of the orders already carried by the payload,
// on its candles or loose
func payloadOrderIDs(payload Payload) *set.LinkedHashSetINT64 {
	ids := set.NewLinkedHashSetINT64()
	for _, candle := range payload.Candles {
		for _, order := range candle.Orders {
			ids.Add(order.ID)
		}
	}
	for _, order := range payload.Orders {
		ids.Add(order.ID)
	}
	return ids
}

// LastUpdate returns the most recent modification time of a payload file
func (s *FileSource) LastUpdate() time.Time {
	var last time.Time

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return last
	}

	for _, entry := range entries {
		if filepath.Ext(entry.Name()) != payloadExt {
			continue
		}
		if info, err := entry.Info(); err == nil && info.ModTime().After(last) {
			last = info.ModTime()
		}
	}

	return last
}

// ReadPayload decodes a payload JSON file
func ReadPayload(file string) (Payload, error) {
	f, err := os.Open(file)
	if err != nil {
		return Payload{}, err
	}
	defer f.Close()

	var payload Payload
	if err := json.NewDecoder(f).Decode(&payload); err != nil {
		return Payload{}, fmt.Errorf("%w: decode %s: %w", ErrInvalidPayload, filepath.Base(file), err)
	}

	return payload, nil
}
