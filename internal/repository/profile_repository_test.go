package repository_test

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mixing-service/internal/repository"
	"mixing-service/internal/testsupport"
)

func TestConsumeCreditUsesCurrentBalance(t *testing.T) {
	db := testsupport.NewSharedTestDB(t)
	user := testsupport.CreateUser(t, db, "alice", false)
	testsupport.SetCredit(t, db, user.ID, 1)

	// Both callers have seen a balance of one before either debits.
	profiles := repository.NewProfileRepository(db)
	first, err := profiles.GetProfile(user.ID)
	require.NoError(t, err)
	second, err := profiles.GetProfile(user.ID)
	require.NoError(t, err)
	require.Equal(t, uint(1), first.TrackCredit)
	require.Equal(t, uint(1), second.TrackCredit)

	consume := func(tx *gorm.DB) error {
		return repository.NewProfileRepository(tx).ConsumeCredit(user.ID)
	}
	require.NoError(t, db.Transaction(consume))
	err = db.Transaction(consume)
	assert.True(t, errors.Is(err, repository.ErrNoCredit))
	assert.Zero(t, testsupport.Credit(t, db, user.ID))
}

func TestConsumeCreditConcurrently(t *testing.T) {
	tests := []struct {
		name    string
		balance uint
		callers int
		inTx    bool
	}{
		{"two transactions at one", 1, 2, true},
		{"many transactions at three", 3, 8, true},
		{"plain statements at one", 1, 6, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testsupport.NewSharedTestDB(t)
			user := testsupport.CreateUser(t, db, "alice", false)
			testsupport.SetCredit(t, db, user.ID, tt.balance)

			start := make(chan struct{})
			var wg sync.WaitGroup
			results := make([]error, tt.callers)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					<-start
					if tt.inTx {
						results[i] = db.Transaction(func(tx *gorm.DB) error {
							return repository.NewProfileRepository(tx).ConsumeCredit(user.ID)
						})
						return
					}
					results[i] = repository.NewProfileRepository(db).ConsumeCredit(user.ID)
				}(i)
			}
			close(start)
			wg.Wait()

			var ok, empty int
			for _, err := range results {
				switch {
				case err == nil:
					ok++
				case errors.Is(err, repository.ErrNoCredit):
					empty++
				default:
					t.Fatalf("unexpected error: %v", err)
				}
			}
			assert.Equal(t, int(tt.balance), ok)
			assert.Equal(t, tt.callers-int(tt.balance), empty)
			assert.Zero(t, testsupport.Credit(t, db, user.ID))
		})
	}
}
