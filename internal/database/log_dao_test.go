// Copyright (C) 2026  The mailroom authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package database

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/induscare/mailroom/internal/models"
)

func TestLogDaoTestSuite(t *testing.T) {
	suite.Run(t, new(LogDaoTestSuite))
}

type LogDaoTestSuite struct {
	baseDatabaseTestSuite

	logDao LogDao
}

func (s *LogDaoTestSuite) SetupSuite() {
	s.logDao = NewLogDao()
}

func (s *LogDaoTestSuite) TestInsert() {
	record := models.LogEntity{
		EnvelopeID:        "e1",
		TriggerID:         1,
		SMTPConfigID:      sql.NullInt64{Int64: 1, Valid: true},
		ToEmail:           "jane@example.com",
		Subject:           "Hello",
		Status:            models.StatusSent,
		SentAt:            sql.NullInt64{Int64: 600, Valid: true},
		RetryCount:        1,
		ProcessingSeconds: 0.25,
		CreatedAt:         600,
	}

	s.Assert().Zero(record.ID)
	s.Assert().NoError(s.logDao.Insert(s.ctx, s.conn, &record))
	s.Assert().NotZero(record.ID)

	s.assertQuery(
		`
			select "envelope_id", "to_email", "status", "sent_at", "processing_seconds"
			from "logs" ;
		`,
		[]string{"e1", "jane@example.com", "sent", "600", "0.25"})
}

func (s *LogDaoTestSuite) TestFindRecent() {
	s.requireExec(
		`
			insert into "logs"
				( "id", "envelope_id", "trigger_id", "to_email", "subject",
				  "status", "created_at" )
			values
				( 1, 'e1', 1, 'a@example.com', 'S', 'failed', 100 ) ,
				( 2, 'e1', 1, 'a@example.com', 'S', 'sent', 300 ) ,
				( 3, 'e2', 1, 'b@example.com', 'S', 'sent', 200 ) ;
		`)

	records, err := s.logDao.FindRecent(s.ctx, s.conn, 2)
	s.Require().NoError(err)
	s.Require().Len(records, 2)

	s.Assert().Equal(int64(2), records[0].ID)
	s.Assert().Equal(int64(3), records[1].ID)
}

func (s *LogDaoTestSuite) TestFindByEnvelope() {
	s.requireExec(
		`
			insert into "logs"
				( "id", "envelope_id", "trigger_id", "to_email", "subject",
				  "status", "created_at" )
			values
				( 1, 'e1', 1, 'a@example.com', 'S', 'failed', 200 ) ,
				( 2, 'e2', 1, 'b@example.com', 'S', 'sent', 100 ) ,
				( 3, 'e1', 1, 'a@example.com', 'S', 'sent', 300 ) ;
		`)

	records, err := s.logDao.FindByEnvelope(s.ctx, s.conn, "e1")
	s.Require().NoError(err)
	s.Require().Len(records, 2)

	s.Assert().Equal(models.StatusFailed, records[0].Status)
	s.Assert().Equal(models.StatusSent, records[1].Status)
}

func (s *LogDaoTestSuite) TestPruneBefore() {
	s.requireExec(
		`
			insert into "logs"
				( "id", "envelope_id", "trigger_id", "to_email", "subject",
				  "status", "created_at" )
			values
				( 1, 'e1', 1, 'a@example.com', 'S', 'sent', 100 ) ,
				( 2, 'e2', 1, 'b@example.com', 'S', 'sent', 900 ) ;
		`)

	pruned, err := s.logDao.PruneBefore(s.ctx, s.conn, 500)
	s.Require().NoError(err)
	s.Assert().Equal(int64(1), pruned)

	s.assertQuery(`select "id" from "logs" ;`, []string{"2"})
}
