package journal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rustyeddy/tradejournal/pkg/id"
)

// AddImage stores an image row for an existing trade.
func (j *SQLite) AddImage(ctx context.Context, img *TradeImage) error {
	var exists int
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM trades WHERE trade_id = ?`, img.TradeID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("trade %q: %w", img.TradeID, ErrNotFound)
	}

	if img.ImageID == "" {
		img.ImageID = id.New()
	}
	if img.Kind == "" {
		img.Kind = ImageEntry
	}
	if img.CreatedAt.IsZero() {
		img.CreatedAt = j.now().UTC()
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO trade_images (image_id, trade_id, image_path, image_type, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		img.ImageID, img.TradeID, img.Path, string(img.Kind), img.Description, img.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert image for %q: %w", img.TradeID, err)
	}
	return nil
}

// ListImages returns the images of one trade, oldest first.
func (j *SQLite) ListImages(ctx context.Context, tradeID string) ([]TradeImage, error) {
	return queryImages(ctx, j.db, `
		SELECT image_id, trade_id, image_path, image_type, description, created_at
		FROM trade_images
		WHERE trade_id = ?
		ORDER BY created_at ASC, image_id ASC`, tradeID)
}

func (j *SQLite) imagesByTrade(ctx context.Context) (map[string][]TradeImage, error) {
	all, err := queryImages(ctx, j.db, `
		SELECT image_id, trade_id, image_path, image_type, description, created_at
		FROM trade_images
		ORDER BY created_at ASC, image_id ASC`)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]TradeImage)
	for _, img := range all {
		out[img.TradeID] = append(out[img.TradeID], img)
	}
	return out, nil
}

func queryImages(ctx context.Context, q queryer, query string, args ...any) ([]TradeImage, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TradeImage{}
	for rows.Next() {
		var (
			img  TradeImage
			kind string
			desc sql.NullString
		)
		if err := rows.Scan(&img.ImageID, &img.TradeID, &img.Path, &kind, &desc, &img.CreatedAt); err != nil {
			return nil, err
		}
		img.Kind = ImageKind(kind)
		img.Description = desc.String
		img.CreatedAt = img.CreatedAt.UTC()
		out = append(out, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
