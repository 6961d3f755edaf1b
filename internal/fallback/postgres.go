package fallback

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/otakuflix/episode-resolver/internal/episodes"
)

// PostgresStore reads fallback episode tables from Postgres. Rows are
// maintained out of band by the catalog tooling.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store backed by Postgres.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) EpisodesFor(ctx context.Context, animeID string) ([]episodes.Episode, error) {
	const q = `SELECT id, title, file_code, provider, number,
	                  COALESCE(thumbnail, ''), COALESCE(duration, 0), COALESCE(synopsis, '')
	           FROM fallback_episodes
	           WHERE anime_id = $1
	           ORDER BY number ASC`
	rows, err := s.pool.Query(ctx, q, animeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []episodes.Episode{}
	for rows.Next() {
		var ep episodes.Episode
		if err := rows.Scan(&ep.ID, &ep.Title, &ep.FileCode, &ep.Provider,
			&ep.Number, &ep.Thumbnail, &ep.Duration, &ep.Synopsis); err != nil {
			return nil, err
		}
		out = append(out, ep)
	}
	return out, rows.Err()
}
