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
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/induscare/mailroom/internal/models"
)

func TestTriggerDaoTestSuite(t *testing.T) {
	suite.Run(t, new(TriggerDaoTestSuite))
}

type TriggerDaoTestSuite struct {
	baseDatabaseTestSuite

	triggerDao TriggerDao
}

func (s *TriggerDaoTestSuite) SetupSuite() {
	s.triggerDao = NewTriggerDao()
}

func (s *TriggerDaoTestSuite) TestInsert() {
	s.requireTriggerFixture()

	trigger := models.TriggerEntity{
		Name:         "approval-mail",
		TriggerType:  models.TriggerApplicationApproved,
		TemplateID:   1,
		SMTPConfigID: 1,
		IsActive:     true,
		Priority:     models.PriorityHigh,
		DelayMinutes: 30,
		Conditions:   models.ContextMap{"application.department": "cardiology"},
		CreatedAt:    100,
		UpdatedAt:    100,
	}

	s.Assert().NoError(s.triggerDao.Insert(s.ctx, s.conn, &trigger))
	s.Assert().NotZero(trigger.ID)

	s.assertQuery(
		`
			select "name", "trigger_type", "priority", "delay_minutes", "conditions"
			from "triggers"
			where "id" = 2 ;
		`,
		[]string{
			"approval-mail", "application_approved", "3", "30",
			`{"application.department":"cardiology"}`,
		})
}

func (s *TriggerDaoTestSuite) TestUpdate() {
	s.requireTriggerFixture()

	trigger := models.TriggerEntity{
		ID:           1,
		Name:         "welcome-mail",
		TriggerType:  models.TriggerUserRegistration,
		TemplateID:   1,
		SMTPConfigID: 1,
		IsActive:     false,
		Priority:     models.PriorityUrgent,
		DelayMinutes: 5,
		Conditions:   models.ContextMap{},
		CreatedAt:    100,
		UpdatedAt:    200,
	}

	s.Assert().NoError(s.triggerDao.Update(s.ctx, s.conn, &trigger))

	s.assertQuery(
		`
			select "id", "is_active", "priority", "delay_minutes", "updated_at"
			from "triggers" ;
		`,
		[]string{"1", "false", "4", "5", "200"})
}

func (s *TriggerDaoTestSuite) TestFindActiveByType() {
	s.requireTriggerFixture()
	s.requireExec(
		`
			insert into "triggers"
				( "id", "name", "trigger_type", "template_id", "smtp_config_id",
				  "is_active", "priority", "created_at", "updated_at" )
			values
				( 10, 'late-normal',  'application_submitted', 1, 1, true,  2, 300, 300 ) ,
				( 11, 'early-normal', 'application_submitted', 1, 1, true,  2, 200, 200 ) ,
				( 12, 'urgent',       'application_submitted', 1, 1, true,  4, 400, 400 ) ,
				( 13, 'disabled',     'application_submitted', 1, 1, false, 4, 100, 100 ) ,
				( 14, 'other-type',   'application_rejected',  1, 1, true,  4, 100, 100 ) ;
		`)

	triggers, err := s.triggerDao.FindActiveByType(
		s.ctx, s.conn, models.TriggerApplicationSubmitted)
	s.Require().NoError(err)
	s.Require().Len(triggers, 3)

	s.Assert().Equal("urgent", triggers[0].Name)
	s.Assert().Equal("early-normal", triggers[1].Name)
	s.Assert().Equal("late-normal", triggers[2].Name)
}

func (s *TriggerDaoTestSuite) TestFindActiveByTypeEmpty() {
	triggers, err := s.triggerDao.FindActiveByType(s.ctx, s.conn, models.TriggerCustom)
	s.Require().NoError(err)
	s.Assert().Empty(triggers)
}

func (s *TriggerDaoTestSuite) TestFindByID() {
	s.requireTriggerFixture()

	trigger, err := s.triggerDao.FindByID(s.ctx, s.conn, 1)
	s.Require().NoError(err)
	s.Assert().Equal("welcome-mail", trigger.Name)
	s.Assert().Equal(int64(1), trigger.TemplateID)

	_, err = s.triggerDao.FindByID(s.ctx, s.conn, 999)
	s.Assert().True(IsErrNoRows(err))
}
