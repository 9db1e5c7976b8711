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

package shell

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/induscare/mailroom/internal/models"
	"github.com/induscare/mailroom/internal/templates"
	"github.com/induscare/mailroom/internal/transport"
)

var (
	errNoConfigs   = errors.New("there are no transport profiles configured")
	errNoTemplates = errors.New("there are no templates configured")
	errNoEnvelopes = errors.New("there are no matching envelopes")
)

func listConfigs(ctx *cmdContext) error {
	configs, err := ctx.smtpConfigDao.FindAll(ctx, ctx.tx)
	if err != nil {
		return err
	}

	ctx.info("(%d) Transport profiles", len(configs))

	for _, config := range configs {
		marker := " "
		if config.IsDefault {
			marker = "*"
		}

		state := "active"
		if !config.IsActive {
			state = "disabled"
		}

		host, err := models.DomainToUnicode(config.Host)
		if err != nil {
			host = config.Host
		}

		ctx.info("%s %-20q %s:%d (%s)", marker, config.Name, host, config.Port, state)
	}

	return nil
}

func addConfig(ctx *cmdContext) error {
	name, err := ctx.ask("Profile name: ")
	if err != nil {
		return err
	}

	host, err := ctx.ask("Host: ")
	if err != nil {
		return err
	}

	portRaw, err := ctx.askWithDefault("Port: ", "587")
	if err != nil {
		return err
	}

	port, err := strconv.Atoi(portRaw)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", portRaw, err)
	}

	username, err := ctx.ask("Username: ")
	if err != nil {
		return err
	}

	password, err := ctx.password("Password: ")
	if err != nil {
		return err
	}

	fromEmail, err := ctx.ask("From address: ")
	if err != nil {
		return err
	}

	if _, err := models.ParseUnicode(fromEmail); err != nil {
		return fmt.Errorf("invalid from address %q: %w", fromEmail, err)
	}

	fromName, err := ctx.ask("From name: ")
	if err != nil {
		return err
	}

	useSSL, err := ctx.askBool("Implicit tls (smtps)?", port == 465)
	if err != nil {
		return err
	}

	isDefault, err := ctx.askBool("Make default?", false)
	if err != nil {
		return err
	}

	now := time.Now().Unix()

	config := models.SMTPConfigEntity{
		Name:      name,
		Host:      host,
		Port:      port,
		UseTLS:    !useSSL,
		UseSSL:    useSSL,
		Username:  username,
		Password:  string(password),
		FromEmail: fromEmail,
		FromName:  fromName,
		IsActive:  true,
		IsDefault: isDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := ctx.smtpConfigDao.Insert(ctx, ctx.tx, &config); err != nil {
		return fmt.Errorf("could not store profile %q: %w", name, err)
	}

	ctx.info("Profile %q added with id=%d.", name, config.ID)
	return nil
}

func defaultConfig(ctx *cmdContext) error {
	config, err := selectOneConfig(ctx)
	if err != nil {
		return err
	}

	config.IsDefault = true
	config.UpdatedAt = time.Now().Unix()

	if err := ctx.smtpConfigDao.Update(ctx, ctx.tx, config); err != nil {
		return fmt.Errorf("could not update profile %q: %w", config.Name, err)
	}

	ctx.info("Profile %q is now the default.", config.Name)
	return nil
}

func listTemplates(ctx *cmdContext) error {
	templateSlice, err := ctx.templateDao.FindAll(ctx, ctx.tx)
	if err != nil {
		return err
	}

	ctx.info("(%d) Templates", len(templateSlice))

	for _, template := range templateSlice {
		state := "active"
		if !template.IsActive {
			state = "disabled"
		}

		ctx.info("%-24q %-24s (%s)", template.Name, template.TriggerType, state)
	}

	return nil
}

func validateTemplate(ctx *cmdContext) error {
	template, err := selectOneTemplate(ctx)
	if err != nil {
		return err
	}

	missing := templates.Validate(template)

	if len(missing) == 0 {
		ctx.info("Template %q declares every placeholder it uses.", template.Name)
		return nil
	}

	ctx.info("Template %q uses (%d) undeclared placeholders:", template.Name, len(missing))

	for _, path := range missing {
		ctx.info("  {{%s}}", path)
	}

	return nil
}

func listTriggers(ctx *cmdContext) error {
	triggers, err := ctx.triggerDao.FindAll(ctx, ctx.tx)
	if err != nil {
		return err
	}

	ctx.info("(%d) Triggers", len(triggers))

	for _, trigger := range triggers {
		state := "active"
		if !trigger.IsActive {
			state = "disabled"
		}

		ctx.info("%-24q %-24s priority=%d delay=%dm (%s)",
			trigger.Name,
			trigger.TriggerType,
			trigger.Priority,
			trigger.DelayMinutes,
			state)
	}

	return nil
}

func queueStats(ctx *cmdContext) error {
	counts, err := ctx.envelopeDao.CountByStatus(ctx, ctx.tx)
	if err != nil {
		return err
	}

	ctx.info("Envelopes by status:")

	for _, status := range []models.DeliveryStatus{
		models.StatusPending,
		models.StatusProcessing,
		models.StatusSent,
		models.StatusFailed,
		models.StatusCancelled,
	} {
		ctx.info("  %-12s %d", status, counts[status])
	}

	return nil
}

func retryEnvelope(ctx *cmdContext) error {
	retryable, err := ctx.envelopeDao.FindRetryable(ctx, ctx.tx, 100)
	if err != nil {
		return err
	}

	envelope, err := selectOneEnvelope(retryable)
	if err != nil {
		return err
	}

	now := time.Now().Unix()

	if err := ctx.envelopeDao.Retry(ctx, ctx.tx, envelope.ID, now, now); err != nil {
		return fmt.Errorf("could not requeue envelope %q: %w", envelope.ID, err)
	}

	ctx.info("Envelope %q requeued for immediate delivery.", envelope.ID)
	return nil
}

func cancelEnvelope(ctx *cmdContext) error {
	pending, err := ctx.envelopeDao.FindByStatus(ctx, ctx.tx, models.StatusPending, 100)
	if err != nil {
		return err
	}

	envelope, err := selectOneEnvelope(pending)
	if err != nil {
		return err
	}

	if err := ctx.envelopeDao.Cancel(ctx, ctx.tx, envelope.ID, time.Now().Unix()); err != nil {
		return fmt.Errorf("could not cancel envelope %q: %w", envelope.ID, err)
	}

	ctx.info("Envelope %q cancelled.", envelope.ID)
	return nil
}

func queueHistory(ctx *cmdContext) error {
	records, err := ctx.logDao.FindRecent(ctx, ctx.tx, 20)
	if err != nil {
		return err
	}

	ctx.info("(%d) Recent delivery attempts", len(records))

	for _, record := range records {
		line := fmt.Sprintf("%s  %-9s %-32s %.2fs",
			time.Unix(record.CreatedAt, 0).Format(time.RFC3339),
			record.Status,
			record.ToEmail,
			record.ProcessingSeconds)

		if record.ErrorMessage.Valid {
			line += "  " + record.ErrorMessage.String
		}

		ctx.info("%s", line)
	}

	return nil
}

func sendTestMail(ctx *cmdContext) error {
	config, err := selectOneConfig(ctx)
	if err != nil {
		return err
	}

	recipient, err := ctx.ask("Recipient: ")
	if err != nil {
		return err
	}

	if _, err := models.ParseUnicode(recipient); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", recipient, err)
	}

	msg := transport.Message{
		ToEmail:     recipient,
		Subject:     fmt.Sprintf("Test mail via %q", config.Name),
		HTMLContent: "<p>This is a test mail. The transport profile works.</p>",
		TextContent: "This is a test mail. The transport profile works.",
	}

	if err := ctx.sender.Send(ctx, config, &msg); err != nil {
		return err
	}

	ctx.info("Test mail sent to %q via %q.", recipient, config.Name)
	return nil
}

func selectOneConfig(ctx *cmdContext) (*models.SMTPConfigEntity, error) {
	configs, err := ctx.smtpConfigDao.FindAll(ctx, ctx.tx)
	if err != nil {
		return nil, err
	}

	if len(configs) == 0 {
		return nil, errNoConfigs
	}

	index, err := fuzzyfinder.Find(configs, func(i int) string {
		return fmt.Sprintf("%s (%s:%d)", configs[i].Name, configs[i].Host, configs[i].Port)
	})
	if err != nil {
		return nil, err
	}

	return &configs[index], nil
}

func selectOneTemplate(ctx *cmdContext) (*models.TemplateEntity, error) {
	templateSlice, err := ctx.templateDao.FindAll(ctx, ctx.tx)
	if err != nil {
		return nil, err
	}

	if len(templateSlice) == 0 {
		return nil, errNoTemplates
	}

	index, err := fuzzyfinder.Find(templateSlice, func(i int) string {
		return fmt.Sprintf("%s [%s]", templateSlice[i].Name, templateSlice[i].TriggerType)
	})
	if err != nil {
		return nil, err
	}

	return &templateSlice[index], nil
}

func selectOneEnvelope(envelopes []models.EnvelopeEntity) (*models.EnvelopeEntity, error) {
	if len(envelopes) == 0 {
		return nil, errNoEnvelopes
	}

	index, err := fuzzyfinder.Find(envelopes, func(i int) string {
		envelope := envelopes[i]
		return fmt.Sprintf("%s  %s  %q", envelope.ID[:8], envelope.ToEmail, envelope.Subject)
	})
	if err != nil {
		return nil, err
	}

	return &envelopes[index], nil
}
