package db

import (
	"context"

	"github.com/shandysiswandi/ecclesia/internal/membership/entity"
)

const queryCreateMember = `
INSERT INTO members (id, email, first_name, last_name, password_hash, role, email_verified_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (s *DB) CreateMember(ctx context.Context, in entity.NewMember) (err error) {
	ctx, span := s.startSpan(ctx, "CreateMember")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateMember,
		in.ID,
		in.Email,
		in.FirstName,
		in.LastName,
		in.PasswordHash,
		int16(in.Role),
		in.EmailVerifiedAt,
	)
	err = s.mapError(err)
	return err
}
