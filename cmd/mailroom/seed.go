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

package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/spf13/viper"

	"github.com/induscare/mailroom/internal/database"
	"github.com/induscare/mailroom/internal/log"
	"github.com/induscare/mailroom/internal/models"
	"github.com/induscare/mailroom/internal/templates"
)

func init() {
	viper.SetDefault("seed.smtp.host", "smtp.gmail.com")
	viper.SetDefault("seed.smtp.port", 587)
	viper.SetDefault("seed.smtp.username", "")
	viper.SetDefault("seed.smtp.password", "")
	viper.SetDefault("seed.smtp.fromemail", "noreply@localhost")
	viper.SetDefault("seed.smtp.fromname", "RH Acqua")
}

// seedCommand installs the default transport profile, the stock templates and
// one trigger per template. It refuses to run twice.
type seedCommand struct {
	Conn database.Conn

	SMTPConfigDao database.SMTPConfigDao
	TemplateDao   database.TemplateDao
	TriggerDao    database.TriggerDao
}

type seedTemplate struct {
	template models.TemplateEntity
	trigger  models.TriggerEntity
}

func (c *seedCommand) run() error {
	ctx := context.Background()

	tx, err := c.Conn.Begin(ctx)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	existing, err := c.TemplateDao.FindAll(ctx, tx)
	if err != nil {
		return err
	}

	if len(existing) > 0 {
		log.Info().Int("templates", len(existing)).
			Msg("database is not empty, nothing to seed")
		return nil
	}

	config := defaultSMTPConfig(time.Now().Unix())
	if err := c.SMTPConfigDao.Insert(ctx, tx, config); err != nil {
		return err
	}

	for _, seed := range defaultTemplates(time.Now().Unix()) {
		if err := c.TemplateDao.Insert(ctx, tx, &seed.template); err != nil {
			return err
		}

		if missing := templates.Validate(&seed.template); len(missing) > 0 {
			log.Warn().
				Str("template", seed.template.Name).
				Strs("missing", missing).
				Msg("template references undeclared variables")
		}

		seed.trigger.TemplateID = seed.template.ID
		seed.trigger.SMTPConfigID = config.ID

		if err := c.TriggerDao.Insert(ctx, tx, &seed.trigger); err != nil {
			return err
		}

		log.Info().
			Str("template", seed.template.Name).
			Str("trigger", seed.trigger.Name).
			Msg("seeded")
	}

	return tx.Commit()
}

func defaultSMTPConfig(now int64) *models.SMTPConfigEntity {
	return &models.SMTPConfigEntity{
		Name:      "Configuração Padrão",
		Host:      viper.GetString("seed.smtp.host"),
		Port:      viper.GetInt("seed.smtp.port"),
		UseTLS:    true,
		UseSSL:    false,
		Username:  viper.GetString("seed.smtp.username"),
		Password:  viper.GetString("seed.smtp.password"),
		FromEmail: viper.GetString("seed.smtp.fromemail"),
		FromName:  viper.GetString("seed.smtp.fromname"),
		IsActive:  true,
		IsDefault: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func defaultTemplates(now int64) []seedTemplate {
	seeds := []seedTemplate{
		{
			template: models.TemplateEntity{
				Name:        "Boas-vindas - Cadastro de Usuário",
				TriggerType: models.TriggerUserRegistration,
				Subject:     "Bem-vindo(a) ao RH Acqua, {{user_name}}!",
				HTMLContent: `<h2>Bem-vindo(a) ao RH Acqua!</h2>
<p>Olá <strong>{{user_name}}</strong>,</p>
<p>É com grande prazer que damos as boas-vindas ao nosso sistema de recrutamento e seleção!</p>
<p><strong>Seu cadastro foi realizado com sucesso em {{registration_date}}.</strong></p>
<p>Agora você pode:</p>
<ul>
<li>Visualizar todas as vagas disponíveis</li>
<li>Candidatar-se às oportunidades de seu interesse</li>
<li>Acompanhar o status de suas candidaturas</li>
<li>Atualizar seu currículo a qualquer momento</li>
</ul>
<p>Acesse sua conta em <a href="{{site_url}}">{{site_url}}</a> e complete seu perfil profissional.</p>
<p>Boa sorte em sua jornada profissional!</p>
<p>Atenciosamente,<br><strong>Equipe RH Acqua</strong></p>`,
				TextContent: nullString(`Bem-vindo(a) ao RH Acqua!

Olá {{user_name}},

É com grande prazer que damos as boas-vindas ao nosso sistema de recrutamento e seleção!

Seu cadastro foi realizado com sucesso em {{registration_date}}.

Acesse sua conta em {{site_url}} e complete seu perfil profissional.

Boa sorte em sua jornada profissional!

Atenciosamente,
Equipe RH Acqua`),
				Variables: models.ContextMap{
					"user_name":         "Nome completo do usuário",
					"user_email":        "Email do usuário",
					"registration_date": "Data de cadastro",
					"site_name":         "Nome do site",
					"site_url":          "URL do site",
				},
			},
			trigger: models.TriggerEntity{
				Name:        "Cadastro de Usuário",
				TriggerType: models.TriggerUserRegistration,
				Priority:    models.PriorityNormal,
			},
		},
		{
			template: models.TemplateEntity{
				Name:        "Confirmação de Candidatura",
				TriggerType: models.TriggerApplicationSubmitted,
				Subject:     "Candidatura confirmada - {{vacancy_title}}",
				HTMLContent: `<h2>Candidatura Confirmada!</h2>
<p>Olá <strong>{{user_name}}</strong>,</p>
<p>Sua candidatura foi recebida com sucesso!</p>
<p><strong>Vaga:</strong> {{vacancy_title}}<br>
<strong>Departamento:</strong> {{vacancy_department}}<br>
<strong>Local:</strong> {{vacancy_location}}<br>
<strong>Data da candidatura:</strong> {{application_date}}</p>
<p>Nossa equipe de recrutamento analisará seu perfil e entrará em contato em breve.</p>
<p>Você pode acompanhar o status de sua candidatura acessando sua conta em <a href="{{site_url}}">{{site_url}}</a></p>
<p>Obrigado pelo seu interesse em fazer parte da nossa equipe!</p>
<p>Atenciosamente,<br><strong>Equipe RH Acqua</strong></p>`,
				TextContent: nullString(`Candidatura Confirmada!

Olá {{user_name}},

Sua candidatura foi recebida com sucesso!

Vaga: {{vacancy_title}}
Departamento: {{vacancy_department}}
Local: {{vacancy_location}}
Data da candidatura: {{application_date}}

Nossa equipe de recrutamento analisará seu perfil e entrará em contato em breve.

Você pode acompanhar o status de sua candidatura acessando sua conta em {{site_url}}

Atenciosamente,
Equipe RH Acqua`),
				Variables: models.ContextMap{
					"user_name":          "Nome completo do usuário",
					"user_email":         "Email do usuário",
					"vacancy_title":      "Título da vaga",
					"vacancy_department": "Departamento da vaga",
					"vacancy_location":   "Local da vaga",
					"application_date":   "Data da candidatura",
					"application_id":     "ID da candidatura",
					"site_name":          "Nome do site",
					"site_url":           "URL do site",
				},
			},
			trigger: models.TriggerEntity{
				Name:        "Candidatura Realizada",
				TriggerType: models.TriggerApplicationSubmitted,
				Priority:    models.PriorityNormal,
			},
		},
		{
			template: models.TemplateEntity{
				Name:        "Candidatura Aprovada",
				TriggerType: models.TriggerApplicationApproved,
				Subject:     "Parabéns! Sua candidatura foi aprovada - {{vacancy_title}}",
				HTMLContent: `<h2>Parabéns! Sua candidatura foi aprovada!</h2>
<p>Olá <strong>{{user_name}}</strong>,</p>
<p>Temos uma ótima notícia para você!</p>
<p><strong>Sua candidatura para a vaga "{{vacancy_title}}" foi aprovada!</strong><br>
<strong>Status:</strong> {{application_status}}<br>
<strong>Data da análise:</strong> {{review_date}}</p>
<p>Nossa equipe entrará em contato em breve para agendar as próximas etapas do processo seletivo.</p>
<p>Mantenha-se atento ao seu email e telefone para não perder nenhuma comunicação.</p>
<p>Parabéns mais uma vez e boa sorte nas próximas etapas!</p>
<p>Atenciosamente,<br><strong>Equipe RH Acqua</strong></p>`,
				TextContent: nullString(`Parabéns! Sua candidatura foi aprovada!

Olá {{user_name}},

Sua candidatura para a vaga "{{vacancy_title}}" foi aprovada!
Status: {{application_status}}
Data da análise: {{review_date}}

Nossa equipe entrará em contato em breve para agendar as próximas etapas do processo seletivo.

Parabéns mais uma vez e boa sorte nas próximas etapas!

Atenciosamente,
Equipe RH Acqua`),
				Variables: models.ContextMap{
					"user_name":          "Nome completo do usuário",
					"user_email":         "Email do usuário",
					"vacancy_title":      "Título da vaga",
					"application_status": "Status da candidatura",
					"review_date":        "Data da análise",
					"site_url":           "URL do site",
				},
			},
			trigger: models.TriggerEntity{
				Name:        "Candidatura Aprovada",
				TriggerType: models.TriggerApplicationApproved,
				Priority:    models.PriorityHigh,
			},
		},
		{
			template: models.TemplateEntity{
				Name:        "Candidatura Não Aprovada",
				TriggerType: models.TriggerApplicationRejected,
				Subject:     "Atualização sobre sua candidatura - {{vacancy_title}}",
				HTMLContent: `<h2>Atualização sobre sua candidatura</h2>
<p>Olá <strong>{{user_name}}</strong>,</p>
<p>Obrigado pelo interesse demonstrado em nossa vaga.</p>
<p>Após análise cuidadosa, informamos que sua candidatura para a vaga <strong>"{{vacancy_title}}"</strong> não foi aprovada nesta oportunidade.</p>
<p>Esta decisão não reflete necessariamente sobre suas qualificações, mas sim sobre o alinhamento específico com o perfil procurado para esta posição.</p>
<p>Encorajamos você a continuar acompanhando nossas oportunidades em <a href="{{site_url}}">{{site_url}}</a></p>
<p>Obrigado por confiar em nós e boa sorte em sua jornada profissional!</p>
<p>Atenciosamente,<br><strong>Equipe RH Acqua</strong></p>`,
				TextContent: nullString(`Atualização sobre sua candidatura

Olá {{user_name}},

Após análise cuidadosa, informamos que sua candidatura para a vaga "{{vacancy_title}}" não foi aprovada nesta oportunidade.

Esta decisão não reflete necessariamente sobre suas qualificações, mas sim sobre o alinhamento específico com o perfil procurado para esta posição.

Encorajamos você a continuar acompanhando nossas oportunidades em {{site_url}}

Atenciosamente,
Equipe RH Acqua`),
				Variables: models.ContextMap{
					"user_name":          "Nome completo do usuário",
					"user_email":         "Email do usuário",
					"vacancy_title":      "Título da vaga",
					"application_status": "Status da candidatura",
					"review_date":        "Data da análise",
					"site_url":           "URL do site",
				},
			},
			trigger: models.TriggerEntity{
				Name:        "Candidatura Não Aprovada",
				TriggerType: models.TriggerApplicationRejected,
				Priority:    models.PriorityNormal,
			},
		},
		{
			template: models.TemplateEntity{
				Name:        "Entrevista Agendada",
				TriggerType: models.TriggerInterviewScheduled,
				Subject:     "Entrevista agendada - {{vacancy_title}}",
				HTMLContent: `<h2>Entrevista Agendada!</h2>
<p>Olá <strong>{{user_name}}</strong>,</p>
<p>Sua entrevista foi agendada com sucesso!</p>
<p><strong>Vaga:</strong> {{vacancy_title}}<br>
<strong>Data:</strong> {{interview_date}}<br>
<strong>Horário:</strong> {{interview_time}}<br>
<strong>Tipo:</strong> {{interview_type}}<br>
<strong>Local:</strong> {{interview_location}}<br>
<strong>Entrevistador:</strong> {{interviewer_name}}</p>
<p>Chegue com 15 minutos de antecedência e leve documentos de identificação.</p>
<p>Se precisar reagendar ou tiver alguma dúvida, entre em contato conosco o quanto antes.</p>
<p>Boa sorte na sua entrevista!</p>
<p>Atenciosamente,<br><strong>Equipe RH Acqua</strong></p>`,
				TextContent: nullString(`Entrevista Agendada!

Olá {{user_name}},

Sua entrevista foi agendada com sucesso!

Vaga: {{vacancy_title}}
Data: {{interview_date}}
Horário: {{interview_time}}
Tipo: {{interview_type}}
Local: {{interview_location}}
Entrevistador: {{interviewer_name}}

Chegue com 15 minutos de antecedência e leve documentos de identificação.

Boa sorte na sua entrevista!

Atenciosamente,
Equipe RH Acqua`),
				Variables: models.ContextMap{
					"user_name":          "Nome completo do usuário",
					"vacancy_title":      "Título da vaga",
					"interview_date":     "Data da entrevista",
					"interview_time":     "Horário da entrevista",
					"interview_type":     "Tipo de entrevista",
					"interview_location": "Local da entrevista",
					"interviewer_name":   "Nome do entrevistador",
					"site_url":           "URL do site",
				},
			},
			trigger: models.TriggerEntity{
				Name:        "Entrevista Agendada",
				TriggerType: models.TriggerInterviewScheduled,
				Priority:    models.PriorityHigh,
			},
		},
	}

	for i := range seeds {
		seeds[i].template.IsActive = true
		seeds[i].template.CreatedAt = now
		seeds[i].template.UpdatedAt = now

		seeds[i].trigger.IsActive = true
		seeds[i].trigger.Conditions = models.ContextMap{}
		seeds[i].trigger.CreatedAt = now
		seeds[i].trigger.UpdatedAt = now
	}

	return seeds
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}
