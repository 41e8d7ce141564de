package service

import "github.com/jackc/pgx/v5/pgconn"

func serializationErr() error { return &pgconn.PgError{Code: "40001", Message: "could not serialize access"} }
