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

func TestTemplateDaoTestSuite(t *testing.T) {
	suite.Run(t, new(TemplateDaoTestSuite))
}

type TemplateDaoTestSuite struct {
	baseDatabaseTestSuite

	templateDao TemplateDao
}

func (s *TemplateDaoTestSuite) SetupSuite() {
	s.templateDao = NewTemplateDao()
}

func (s *TemplateDaoTestSuite) TestInsert() {
	template := models.TemplateEntity{
		Name:        "welcome",
		TriggerType: models.TriggerUserRegistration,
		Subject:     "Welcome, {{user.name}}",
		HTMLContent: "<p>Welcome</p>",
		Variables:   models.ContextMap{"user.name": "recipient name"},
		IsActive:    true,
		CreatedAt:   100,
		UpdatedAt:   100,
	}

	s.Assert().Zero(template.ID)
	s.Assert().NoError(s.templateDao.Insert(s.ctx, s.conn, &template))
	s.Assert().NotZero(template.ID)

	s.assertQuery(
		`
			select "id", "name", "trigger_type", "subject", "variables"
			from "templates" ;
		`,
		[]string{
			"1", "welcome", "user_registration", "Welcome, {{user.name}}",
			`{"user.name":"recipient name"}`,
		})
}

func (s *TemplateDaoTestSuite) TestUpdate() {
	s.requireExec(
		`
			insert into "templates"
				( "id", "name", "trigger_type", "subject", "html_content",
				  "created_at", "updated_at" )
			values
				( 42, 'old-name', 'custom', 'Old', '<p>Old</p>', 100, 100 ) ;
		`)

	template := models.TemplateEntity{
		ID:          42,
		Name:        "new-name",
		TriggerType: models.TriggerCustom,
		Subject:     "New",
		HTMLContent: "<p>New</p>",
		Variables:   models.ContextMap{},
		IsActive:    true,
		CreatedAt:   100,
		UpdatedAt:   200,
	}

	s.Assert().NoError(s.templateDao.Update(s.ctx, s.conn, &template))

	s.assertQuery(
		`
			select "id", "name", "subject", "updated_at"
			from "templates" ;
		`,
		[]string{"42", "new-name", "New", "200"})
}

func (s *TemplateDaoTestSuite) TestFindAll() {
	s.requireExec(
		`
			insert into "templates"
				( "id", "name", "trigger_type", "subject", "html_content",
				  "created_at", "updated_at" )
			values
				( 1, 'reminder', 'interview_scheduled', 'S', 'H', 100, 100 ) ,
				( 2, 'approved', 'application_approved', 'S', 'H', 100, 100 ) ,
				( 3, 'welcome', 'application_approved', 'S', 'H', 100, 100 ) ;
		`)

	templates, err := s.templateDao.FindAll(s.ctx, s.conn)
	s.Require().NoError(err)
	s.Require().Len(templates, 3)

	s.Assert().Equal("approved", templates[0].Name)
	s.Assert().Equal("welcome", templates[1].Name)
	s.Assert().Equal("reminder", templates[2].Name)
}

func (s *TemplateDaoTestSuite) TestFindByID() {
	s.requireExec(
		`
			insert into "templates"
				( "id", "name", "trigger_type", "subject", "html_content",
				  "created_at", "updated_at" )
			values
				( 42, 'welcome', 'user_registration', 'S', 'H', 100, 100 ) ;
		`)

	template, err := s.templateDao.FindByID(s.ctx, s.conn, 42)
	s.Require().NoError(err)
	s.Assert().Equal("welcome", template.Name)
	s.Assert().Equal(models.TriggerUserRegistration, template.TriggerType)

	_, err = s.templateDao.FindByID(s.ctx, s.conn, 999)
	s.Assert().True(IsErrNoRows(err))
}
