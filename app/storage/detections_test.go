package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/umputun/antiflood/app/storage/engine"
	"github.com/umputun/antiflood/lib/floodcheck"
)

func detection(group, user, text string, kind floodcheck.Kind, ts time.Time) floodcheck.Detection {
	return floodcheck.Detection{
		Record:   floodcheck.Record{GroupID: group, UserID: user, Text: text, Time: ts},
		Response: floodcheck.Response{Spam: true, Kind: kind, Details: "details " + text},
	}
}

func (s *StorageTestSuite) TestDetections_New() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			_, err := NewDetections(ctx, db)
			s.Require().NoError(err)
			defer db.Exec("DROP TABLE detections")

			var count int
			s.Require().NoError(db.Get(&count, "SELECT COUNT(*) FROM detections"))
			s.Equal(0, count)

			_, err = NewDetections(ctx, db)
			s.Require().NoError(err, "second init on existing table")
		})
	}

	_, err := NewDetections(ctx, nil)
	s.Error(err)
}

func (s *StorageTestSuite) TestDetections_WriteRead() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			d, err := NewDetections(ctx, db)
			s.Require().NoError(err)
			defer db.Exec("DROP TABLE detections")

			base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
			for i := 0; i < 5; i++ {
				det := detection("g1", "u"+strconv.Itoa(i), "msg "+strconv.Itoa(i), floodcheck.KindRepeat,
					base.Add(time.Duration(i)*time.Second))
				s.Require().NoError(d.Write(ctx, det))
			}

			count, err := d.Count(ctx)
			s.Require().NoError(err)
			s.Equal(5, count)

			res, err := d.Read(ctx, 2)
			s.Require().NoError(err)
			s.Require().Len(res, 2)
			s.Equal("msg 4", res[0].Text, "newest first")
			s.Equal("u4", res[0].UserID)
			s.Equal("g1", res[0].GroupID)
			s.Equal(floodcheck.KindRepeat, res[0].Kind)
			s.Equal("details msg 4", res[0].Details)
			s.True(base.Add(4*time.Second).Equal(res[0].Timestamp), "got %v", res[0].Timestamp)
			s.Equal("msg 3", res[1].Text)

			res, err = d.Read(ctx, 0)
			s.Require().NoError(err)
			s.Len(res, 5)
		})
	}
}

func (s *StorageTestSuite) TestDetections_ScopedByGID() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			d, err := NewDetections(ctx, db)
			s.Require().NoError(err)
			defer db.Exec("DROP TABLE detections")
			s.Require().NoError(d.Write(ctx, detection("g1", "u1", "mine", floodcheck.KindLink, time.Now())))

			// same database, another instance id
			_, err = db.Exec(db.Adopt(`INSERT INTO detections (gid, group_id, user_id, text, kind, details, ts)
				VALUES (?, ?, ?, ?, ?, ?, ?)`), "other", "g1", "u2", "not mine", "media", "", time.Now().UTC())
			s.Require().NoError(err)

			count, err := d.Count(ctx)
			s.Require().NoError(err)
			s.Equal(1, count)
			res, err := d.Read(ctx, 10)
			s.Require().NoError(err)
			s.Require().Len(res, 1)
			s.Equal("mine", res[0].Text)
		})
	}
}

func (s *StorageTestSuite) TestDetections_Empty() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			d, err := NewDetections(ctx, db)
			s.Require().NoError(err)
			defer db.Exec("DROP TABLE detections")
			res, err := d.Read(ctx, 10)
			s.Require().NoError(err)
			s.NotNil(res)
			s.Empty(res)
		})
	}
}

func (s *StorageTestSuite) TestDetections_Cleanup() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			d, err := NewDetections(ctx, db)
			s.Require().NoError(err)
			defer db.Exec("DROP TABLE detections")

			s.Require().NoError(d.Write(ctx, detection("g1", "u1", "old", floodcheck.KindRepeat, time.Now().Add(-48*time.Hour))))
			s.Require().NoError(d.Write(ctx, detection("g1", "u1", "new", floodcheck.KindRepeat, time.Now())))

			removed, err := d.Cleanup(ctx, 24*time.Hour)
			s.Require().NoError(err)
			s.Equal(int64(1), removed)
			res, err := d.Read(ctx, 0)
			s.Require().NoError(err)
			s.Require().Len(res, 1)
			s.Equal("new", res[0].Text)
		})
	}
}

func (s *StorageTestSuite) TestDetections_ZeroTime() {
	ctx := context.Background()
	db := s.dbs["sqlite"]
	d, err := NewDetections(ctx, db)
	s.Require().NoError(err)
	defer db.Exec("DROP TABLE detections")

	s.Require().NoError(d.Write(ctx, detection("g1", "u1", "no time", floodcheck.KindFrequency, time.Time{})))
	res, err := d.Read(ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(res, 1)
	s.WithinDuration(time.Now(), res[0].Timestamp, time.Minute)
	s.Equal(engine.Sqlite, db.Type())
}
