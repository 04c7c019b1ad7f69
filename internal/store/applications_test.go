package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhunter/agent/internal/jobs"
)

func testApplication() *jobs.Application {
	return &jobs.Application{
		JobTitle:    "Backend Engineer",
		Company:     "Acme",
		JobURL:      "https://jobs.example/1",
		FitScore:    0.9,
		Explanation: "strong match",
		CoverLetter: "Dear team,",
		Status:      "Applied",
	}
}

func TestSaveInsertsApplication(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO applications").
		WithArgs("user-1", "Backend Engineer", "Acme", "https://jobs.example/1",
			0.9, "strong match", "Dear team,", "Applied", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewWithDB(db, nil)
	err = store.Save(context.Background(), "user-1", testApplication())
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveWrapsDatabaseErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO applications").
		WillReturnError(errors.New("connection reset"))

	store := NewWithDB(db, nil)
	err = store.Save(context.Background(), "user-1", testApplication())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert application")
}

func TestSaveRejectsNilApplication(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewWithDB(db, nil)
	require.Error(t, store.Save(context.Background(), "user-1", nil))
}
