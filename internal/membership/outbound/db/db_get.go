package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/ecclesia/internal/membership/entity"
)

const queryGetMemberCredential = `
SELECT id, email, password_hash, role
FROM members
WHERE lower(email) = lower($1)`

const queryGetMemberByID = `
SELECT id, email, first_name, last_name, role, email_verified_at, created_at
FROM members
WHERE id = $1`

type credentialRow struct {
	ID           int64  `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Role         int16  `db:"role"`
}

type memberRow struct {
	ID              int64     `db:"id"`
	Email           string    `db:"email"`
	FirstName       string    `db:"first_name"`
	LastName        string    `db:"last_name"`
	Role            int16     `db:"role"`
	EmailVerifiedAt time.Time `db:"email_verified_at"`
	CreatedAt       time.Time `db:"created_at"`
}

func (s *DB) GetMemberCredential(ctx context.Context, email string) (_ *entity.MemberCredential, err error) {
	ctx, span := s.startSpan(ctx, "GetMemberCredential")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryGetMemberCredential, email)
	if err != nil {
		return nil, s.mapError(err)
	}

	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[credentialRow])
	if err != nil {
		return nil, s.mapError(err)
	}

	return &entity.MemberCredential{
		ID:           result.ID,
		Email:        result.Email,
		PasswordHash: result.PasswordHash,
		Role:         entity.Role(result.Role).Ensure(),
	}, nil
}

func (s *DB) GetMemberByID(ctx context.Context, id int64) (_ *entity.Member, err error) {
	ctx, span := s.startSpan(ctx, "GetMemberByID")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryGetMemberByID, id)
	if err != nil {
		return nil, s.mapError(err)
	}

	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[memberRow])
	if err != nil {
		return nil, s.mapError(err)
	}

	return &entity.Member{
		ID:              result.ID,
		Email:           result.Email,
		FirstName:       result.FirstName,
		LastName:        result.LastName,
		Role:            entity.Role(result.Role).Ensure(),
		EmailVerifiedAt: result.EmailVerifiedAt,
		CreatedAt:       result.CreatedAt,
	}, nil
}
