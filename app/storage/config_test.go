package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type testDoc struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

func (s *StorageTestSuite) TestConfig_New() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			_, err := NewConfig[testDoc](ctx, db)
			s.Require().NoError(err)
			defer db.Exec("DROP TABLE config")

			var count int
			s.Require().NoError(db.Get(&count, "SELECT COUNT(*) FROM config"))
			s.Equal(0, count)
		})
	}

	s.Run("nil db", func() {
		_, err := NewConfig[testDoc](ctx, nil)
		s.Require().Error(err)
		s.Contains(err.Error(), "no db provided")
	})

	s.Run("context canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewConfig[testDoc](ctx, s.dbs["sqlite"])
		s.Error(err)
	})
}

func (s *StorageTestSuite) TestConfig_SetGet() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			c, err := NewConfig[testDoc](ctx, db)
			s.Require().NoError(err)
			defer db.Exec("DROP TABLE config")

			_, err = c.Get(ctx)
			s.ErrorIs(err, ErrNotFound)
			_, err = c.LastUpdated(ctx)
			s.ErrorIs(err, ErrNotFound)
			var doc testDoc
			s.ErrorIs(c.GetObject(ctx, &doc), ErrNotFound)

			s.Require().NoError(c.SetObject(ctx, &testDoc{Key: "v1", Count: 1}))
			s.Require().NoError(c.GetObject(ctx, &doc))
			s.Equal(testDoc{Key: "v1", Count: 1}, doc)

			// overwrite keeps a single row
			s.Require().NoError(c.Set(ctx, `{"key":"v2","count":2}`))
			data, err := c.Get(ctx)
			s.Require().NoError(err)
			s.JSONEq(`{"key":"v2","count":2}`, data)
			var rows int
			s.Require().NoError(db.Get(&rows, "SELECT COUNT(*) FROM config"))
			s.Equal(1, rows)

			ts, err := c.LastUpdated(ctx)
			s.Require().NoError(err)
			s.WithinDuration(time.Now(), ts, 24*time.Hour)

			s.Require().NoError(c.Delete(ctx))
			_, err = c.Get(ctx)
			s.ErrorIs(err, ErrNotFound)
		})
	}
}

func (s *StorageTestSuite) TestConfig_SetInvalid() {
	ctx := context.Background()
	c, err := NewConfig[testDoc](ctx, s.dbs["sqlite"])
	s.Require().NoError(err)
	defer s.dbs["sqlite"].Exec("DROP TABLE config")

	tests := []struct {
		name, data, err string
	}{
		{"empty", "", "empty data not allowed"},
		{"null", "null", "empty data not allowed"},
		{"broken json", "{bad", "invalid config"},
		{"wrong type", `{"key": 123}`, "invalid config"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			err := c.Set(ctx, tt.data)
			s.Require().Error(err)
			s.Contains(err.Error(), tt.err)
		})
	}
}

func (s *StorageTestSuite) TestConfig_Concurrent() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			c, err := NewConfig[testDoc](ctx, db)
			s.Require().NoError(err)
			defer db.Exec("DROP TABLE config")

			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					s.NoError(c.SetObject(ctx, &testDoc{Key: "k", Count: i}))
					var doc testDoc
					s.NoError(c.GetObject(ctx, &doc))
				}(i)
			}
			wg.Wait()

			var rows int
			s.Require().NoError(db.Get(&rows, "SELECT COUNT(*) FROM config"))
			s.Equal(1, rows)
		})
	}
}
