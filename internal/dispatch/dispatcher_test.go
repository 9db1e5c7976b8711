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

package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/suite"

	"github.com/induscare/mailroom/internal/database"
	"github.com/induscare/mailroom/internal/models"
)

func TestDispatcherTestSuite(t *testing.T) {
	suite.Run(t, new(DispatcherTestSuite))
}

type DispatcherTestSuite struct {
	suite.Suite

	ctx        context.Context
	conn       database.Conn
	dispatcher Dispatcher
}

func (s *DispatcherTestSuite) SetupTest() {
	viper.Set("storage.database.filename", ":memory:")
	viper.Set("storage.database.journalmode", "memory")
	viper.Set("queue.maxretries", 3)

	conn, err := database.OpenConnection()
	s.Require().NoError(err)

	s.ctx = context.Background()
	s.conn = conn
	s.dispatcher = NewDispatcher(
		conn,
		database.NewTriggerDao(),
		database.NewTemplateDao(),
		database.NewEnvelopeDao())
}

func (s *DispatcherTestSuite) TearDownTest() {
	s.Require().NoError(s.conn.Close())
}

func (s *DispatcherTestSuite) requireExec(query string) {
	_, err := s.conn.ExecContext(s.ctx, query)
	s.Require().NoError(err)
}

func (s *DispatcherTestSuite) requireFixture() {
	s.requireExec(
		`
			insert into "smtp_configs"
				( "id", "name", "host", "port", "username", "password",
				  "from_email", "from_name", "is_default",
				  "created_at", "updated_at" )
			values
				( 1, 'default', 'smtp.example.com', 587, 'u', 'p',
				  'noreply@example.com', 'Mailroom', true, 100, 100 ) ;

			insert into "templates"
				( "id", "name", "trigger_type", "subject", "html_content",
				  "text_content", "is_active", "created_at", "updated_at" )
			values
				( 1, 'welcome', 'user_registration',
				  'Welcome, {{user.name}}', '<p>Hello {{user.name}}</p>',
				  'Hello {{user.name}}', true, 100, 100 ) ;

			insert into "triggers"
				( "id", "name", "trigger_type", "template_id", "smtp_config_id",
				  "is_active", "priority", "delay_minutes",
				  "created_at", "updated_at" )
			values
				( 1, 'welcome-mail', 'user_registration', 1, 1,
				  true, 3, 0, 100, 100 ) ;
		`)
}

func (s *DispatcherTestSuite) TestDispatch() {
	s.requireFixture()

	envelope, err := s.dispatcher.Dispatch(s.ctx, &Request{
		TriggerType: models.TriggerUserRegistration,
		ToEmail:     "jane@example.com",
		ToName:      "Jane Doe",
		Context: models.ContextMap{
			"user": map[string]interface{}{"name": "Jane"},
		},
	})

	s.Require().NoError(err)
	s.Require().NotNil(envelope)

	s.Assert().NotEmpty(envelope.ID)
	s.Assert().Equal(int64(1), envelope.TriggerID)
	s.Assert().Equal("Welcome, Jane", envelope.Subject)
	s.Assert().Equal("<p>Hello Jane</p>", envelope.HTMLContent)
	s.Assert().Equal("Hello Jane", envelope.TextContent.String)
	s.Assert().Equal(models.StatusPending, envelope.Status)
	s.Assert().Equal(models.PriorityHigh, envelope.Priority)
	s.Assert().Equal(0, envelope.RetryCount)
	s.Assert().Equal(3, envelope.MaxRetries)

	stored, err := database.NewEnvelopeDao().FindByID(s.ctx, s.conn, envelope.ID)
	s.Require().NoError(err)
	s.Assert().Equal(models.StatusPending, stored.Status)
}

func (s *DispatcherTestSuite) TestDispatchNoTrigger() {
	s.requireFixture()

	envelope, err := s.dispatcher.Dispatch(s.ctx, &Request{
		TriggerType: models.TriggerApplicationRejected,
		ToEmail:     "jane@example.com",
	})

	s.Assert().NoError(err)
	s.Assert().Nil(envelope)
}

func (s *DispatcherTestSuite) TestDispatchInvalidRecipient() {
	s.requireFixture()

	envelope, err := s.dispatcher.Dispatch(s.ctx, &Request{
		TriggerType: models.TriggerUserRegistration,
		ToEmail:     "not-an-address",
	})

	s.Assert().Error(err)
	s.Assert().Nil(envelope)
}

func (s *DispatcherTestSuite) TestDispatchConditions() {
	s.requireFixture()
	s.requireExec(
		`
			update "triggers"
			set "conditions" = '{"application.department":"cardiology"}'
			where "id" = 1 ;
		`)

	envelope, err := s.dispatcher.Dispatch(s.ctx, &Request{
		TriggerType: models.TriggerUserRegistration,
		ToEmail:     "jane@example.com",
		Context: models.ContextMap{
			"application": map[string]interface{}{"department": "radiology"},
		},
	})

	s.Assert().NoError(err)
	s.Assert().Nil(envelope)

	envelope, err = s.dispatcher.Dispatch(s.ctx, &Request{
		TriggerType: models.TriggerUserRegistration,
		ToEmail:     "jane@example.com",
		Context: models.ContextMap{
			"application": map[string]interface{}{"department": "cardiology"},
		},
	})

	s.Require().NoError(err)
	s.Assert().NotNil(envelope)
}

func (s *DispatcherTestSuite) TestDispatchPrefersHigherPriorityTrigger() {
	s.requireFixture()
	s.requireExec(
		`
			insert into "triggers"
				( "id", "name", "trigger_type", "template_id", "smtp_config_id",
				  "is_active", "priority", "delay_minutes",
				  "created_at", "updated_at" )
			values
				( 2, 'urgent-welcome', 'user_registration', 1, 1,
				  true, 4, 0, 200, 200 ) ;
		`)

	envelope, err := s.dispatcher.Dispatch(s.ctx, &Request{
		TriggerType: models.TriggerUserRegistration,
		ToEmail:     "jane@example.com",
	})

	s.Require().NoError(err)
	s.Require().NotNil(envelope)
	s.Assert().Equal(int64(2), envelope.TriggerID)
	s.Assert().Equal(models.PriorityUrgent, envelope.Priority)
}

func (s *DispatcherTestSuite) TestDispatchNoFallbackToLowerPriorityTrigger() {
	s.requireFixture()
	s.requireExec(
		`
			insert into "triggers"
				( "id", "name", "trigger_type", "template_id", "smtp_config_id",
				  "is_active", "priority", "delay_minutes", "conditions",
				  "created_at", "updated_at" )
			values
				( 2, 'urgent-localized', 'user_registration', 1, 1,
				  true, 4, 0, '{"locale":"pt-BR"}', 200, 200 ) ;
		`)

	// The urgent trigger wins the selection. When its conditions do not
	// hold, the event is dropped instead of falling through to the
	// unconditional lower-priority trigger.
	envelope, err := s.dispatcher.Dispatch(s.ctx, &Request{
		TriggerType: models.TriggerUserRegistration,
		ToEmail:     "jane@example.com",
		Context:     models.ContextMap{"locale": "en-US"},
	})

	s.Assert().NoError(err)
	s.Assert().Nil(envelope)

	envelope, err = s.dispatcher.Dispatch(s.ctx, &Request{
		TriggerType: models.TriggerUserRegistration,
		ToEmail:     "jane@example.com",
		Context:     models.ContextMap{"locale": "pt-BR"},
	})

	s.Require().NoError(err)
	s.Require().NotNil(envelope)
	s.Assert().Equal(int64(2), envelope.TriggerID)
}

func (s *DispatcherTestSuite) TestDispatchOverrides() {
	s.requireFixture()

	var (
		priority = models.PriorityLow
		delay    = 90 * time.Minute
		before   = time.Now().Unix()
	)

	envelope, err := s.dispatcher.Dispatch(s.ctx, &Request{
		TriggerType: models.TriggerUserRegistration,
		ToEmail:     "jane@example.com",
		Priority:    &priority,
		Delay:       &delay,
	})

	s.Require().NoError(err)
	s.Require().NotNil(envelope)

	s.Assert().Equal(models.PriorityLow, envelope.Priority)
	s.Assert().GreaterOrEqual(envelope.ScheduledAt, before+90*60)
}

func (s *DispatcherTestSuite) TestDispatchInactiveTemplate() {
	s.requireFixture()
	s.requireExec(`update "templates" set "is_active" = false where "id" = 1 ;`)

	envelope, err := s.dispatcher.Dispatch(s.ctx, &Request{
		TriggerType: models.TriggerUserRegistration,
		ToEmail:     "jane@example.com",
	})

	s.Assert().Error(err)
	s.Assert().Nil(envelope)
}
