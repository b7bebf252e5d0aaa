package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foxseedlab/raidtracker/internal/raid"
	"github.com/foxseedlab/raidtracker/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

// Shutdown closes the pool when the injector shuts down.
func (r *PostgresRepository) Shutdown() {
	r.pool.Close()
}

const characterColumns = `id, character_name, discord_user_id, register_date, unregister_date, created_at`

func (r *PostgresRepository) ListCharactersByOwner(ctx context.Context, ownerUserID string, asOf time.Time) ([]repository.Character, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+characterColumns+`
		 FROM register_characters
		 WHERE discord_user_id = $1 AND (unregister_date IS NULL OR unregister_date >= $2)
		 ORDER BY character_name ASC, id ASC`,
		ownerUserID, asOf)
	if err != nil {
		return nil, err
	}
	return collectCharacters(rows)
}

func (r *PostgresRepository) ListActiveCharacters(ctx context.Context, start, end time.Time) ([]repository.Character, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+characterColumns+`
		 FROM register_characters
		 WHERE register_date <= $2 AND (unregister_date IS NULL OR unregister_date >= $1)
		 ORDER BY character_name ASC, id ASC`,
		start, end)
	if err != nil {
		return nil, err
	}
	return collectCharacters(rows)
}

func (r *PostgresRepository) CreateCharacter(ctx context.Context, input repository.CreateCharacterInput) (*repository.Character, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO register_characters (character_name, discord_user_id, register_date)
		 VALUES ($1, $2, $3)
		 RETURNING `+characterColumns,
		input.Name, input.OwnerUserID, input.RegisterDate)
	c, err := scanCharacter(row)
	if err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func (r *PostgresRepository) SetUnregisterDate(ctx context.Context, characterID string, day *time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE register_characters SET unregister_date = $2 WHERE id = $1`,
		characterID, day)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) RenameCharacter(ctx context.Context, characterID, name string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE register_characters SET character_name = $2 WHERE id = $1`,
		characterID, name)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) InsertCompletions(ctx context.Context, input repository.InsertCompletionsInput) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin completion transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	batch := &pgx.Batch{}
	if ev := input.Evidence; ev != nil {
		batch.Queue(
			`INSERT INTO raid_completion_evidences (discord_user_id, raid_date, message_url)
			 VALUES ($1, $2, $3)`,
			ev.UserID, ev.RaidDate, ev.MessageURL)
	}
	for _, rec := range input.Records {
		batch.Queue(
			`INSERT INTO raid_completions (character_id, raid_type, raid_date)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (character_id, raid_type, raid_date) DO NOTHING`,
			rec.CharacterID, string(rec.RaidType), rec.RaidDate)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err = br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to insert completion row %d: %w", i, err)
		}
	}
	if err = br.Close(); err != nil {
		return fmt.Errorf("failed to close completion batch: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit completion transaction: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListCompletions(ctx context.Context, start, end time.Time, raidTypes []raid.Type) ([]repository.CompletionRecord, error) {
	types := make([]string, 0, len(raidTypes))
	for _, t := range raidTypes {
		types = append(types, string(t))
	}
	rows, err := r.pool.Query(ctx,
		`SELECT character_id, raid_type, raid_date
		 FROM raid_completions
		 WHERE raid_date BETWEEN $1 AND $2
		   AND (cardinality($3::text[]) = 0 OR raid_type = ANY($3::text[]))
		 ORDER BY raid_date ASC, character_id ASC, raid_type ASC`,
		start, end, types)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.CompletionRecord
	for rows.Next() {
		var (
			rec      repository.CompletionRecord
			raidType string
		)
		if err := rows.Scan(&rec.CharacterID, &raidType, &rec.RaidDate); err != nil {
			return nil, err
		}
		rec.RaidType = raid.Type(raidType)
		list = append(list, rec)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) GetChannelSetting(ctx context.Context, channelID string) (*repository.ChannelSetting, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT channel_id, channel_types, language FROM channel_settings WHERE channel_id = $1`,
		channelID)
	var (
		s     repository.ChannelSetting
		types []string
	)
	if err := row.Scan(&s.ChannelID, &types, &s.Language); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	for _, t := range types {
		s.Types = append(s.Types, repository.ChannelType(t))
	}
	return &s, nil
}

func (r *PostgresRepository) ListChannelsByType(ctx context.Context, channelType repository.ChannelType) ([]repository.ChannelSetting, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT channel_id, channel_types, language
		 FROM channel_settings
		 WHERE $1 = ANY(channel_types)
		 ORDER BY channel_id ASC`,
		string(channelType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.ChannelSetting
	for rows.Next() {
		var (
			s     repository.ChannelSetting
			types []string
		)
		if err := rows.Scan(&s.ChannelID, &types, &s.Language); err != nil {
			return nil, err
		}
		for _, t := range types {
			s.Types = append(s.Types, repository.ChannelType(t))
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var isAdmin bool
	err := r.pool.QueryRow(ctx,
		`SELECT is_admin FROM user_settings WHERE discord_user_id = $1`,
		userID).Scan(&isAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return isAdmin, nil
}

const raidEventColumns = `id, event_name, event_time, event_location, event_description, organizer_user_id, scheduled_event_id, scheduled_event_url, created_at`

func (r *PostgresRepository) CreateRaidEvent(ctx context.Context, input repository.CreateRaidEventInput) (*repository.RaidEvent, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO raid_events (event_name, event_time, event_location, event_description, organizer_user_id, scheduled_event_id, scheduled_event_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+raidEventColumns,
		input.Name, input.Time, input.Location, input.Description, input.OrganizerUserID, input.ScheduledEventID, input.ScheduledEventURL)
	ev, err := scanRaidEvent(row)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *PostgresRepository) GetRaidEvent(ctx context.Context, id string) (*repository.RaidEvent, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+raidEventColumns+` FROM raid_events WHERE id = $1`,
		id)
	ev, err := scanRaidEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &ev, nil
}

func (r *PostgresRepository) AddRaidEventMessage(ctx context.Context, eventID string, msg repository.RaidEventMessage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO raid_event_messages (raid_event_id, channel_id, message_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT DO NOTHING`,
		eventID, msg.ChannelID, msg.MessageID)
	return err
}

func (r *PostgresRepository) ListRaidEventMessages(ctx context.Context, eventID string) ([]repository.RaidEventMessage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT channel_id, message_id FROM raid_event_messages WHERE raid_event_id = $1 ORDER BY channel_id ASC`,
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.RaidEventMessage
	for rows.Next() {
		var m repository.RaidEventMessage
		if err := rows.Scan(&m.ChannelID, &m.MessageID); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) AddRaidEventParticipant(ctx context.Context, eventID, characterID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO raid_event_participants (raid_event_id, character_id) VALUES ($1, $2)`,
		eventID, characterID)
	return translateError(err)
}

func (r *PostgresRepository) ListRaidEventParticipants(ctx context.Context, eventID string) ([]repository.RaidEventParticipant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.character_id, c.character_name, c.discord_user_id, p.joined_at
		 FROM raid_event_participants p
		 JOIN register_characters c ON c.id = p.character_id
		 WHERE p.raid_event_id = $1
		 ORDER BY p.joined_at ASC, c.character_name ASC`,
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.RaidEventParticipant
	for rows.Next() {
		var p repository.RaidEventParticipant
		if err := rows.Scan(&p.CharacterID, &p.CharacterName, &p.OwnerUserID, &p.JoinedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanRaidEvent(row pgx.Row) (repository.RaidEvent, error) {
	var ev repository.RaidEvent
	err := row.Scan(&ev.ID, &ev.Name, &ev.Time, &ev.Location, &ev.Description, &ev.OrganizerUserID, &ev.ScheduledEventID, &ev.ScheduledEventURL, &ev.CreatedAt)
	return ev, err
}

func collectCharacters(rows pgx.Rows) ([]repository.Character, error) {
	defer rows.Close()
	var list []repository.Character
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanCharacter(row pgx.Row) (repository.Character, error) {
	var c repository.Character
	err := row.Scan(&c.ID, &c.Name, &c.OwnerUserID, &c.RegisterDate, &c.UnregisterDate, &c.CreatedAt)
	return c, err
}

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrConflict, pgErr.ConstraintName)
	}
	return err
}
