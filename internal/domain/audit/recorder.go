package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"kiosko/internal/core/clock"
	appctx "kiosko/internal/core/context"
	"kiosko/internal/core/id"
)

// DefaultCompressThreshold is the payload size above which entries are stored compressed.
const DefaultCompressThreshold = 4 * 1024

// Recorder writes journal entries, compressing large payloads with zstd.
type Recorder struct {
	repo      Repository
	ids       id.Generator
	clock     clock.Clock
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	threshold int
}

// NewRecorder creates a Recorder. threshold <= 0 selects DefaultCompressThreshold.
func NewRecorder(repo Repository, ids id.Generator, clk clock.Clock, threshold int) (*Recorder, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	if threshold <= 0 {
		threshold = DefaultCompressThreshold
	}
	return &Recorder{
		repo:      repo,
		ids:       ids,
		clock:     clk,
		encoder:   encoder,
		decoder:   decoder,
		threshold: threshold,
	}, nil
}

// Record appends an entry for the entity. The user is taken from ctx.
func (r *Recorder) Record(ctx context.Context, entityType string, entityID id.ID, action Action, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	entry := Entry{
		ID:         r.ids.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		UserID:     appctx.GetUserID(ctx),
		Algo:       CompressionNone,
		Payload:    raw,
		CreatedAt:  r.clock.Now(),
	}
	if len(raw) > r.threshold {
		entry.Compressed = r.encoder.EncodeAll(raw, nil)
		entry.Payload = nil
		entry.Algo = CompressionZstd
	}

	if err := r.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// History returns decompressed entries of one entity, newest first.
func (r *Recorder) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	entries, err := r.repo.History(ctx, entityType, entityID, limit)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Algo != CompressionZstd || len(entries[i].Compressed) == 0 {
			continue
		}
		raw, err := r.decoder.DecodeAll(entries[i].Compressed, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress audit payload: %w", err)
		}
		entries[i].Payload = raw
		entries[i].Compressed = nil
		entries[i].Algo = CompressionNone
	}
	return entries, nil
}
