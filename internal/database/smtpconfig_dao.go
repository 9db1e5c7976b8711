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
	"context"

	"github.com/induscare/mailroom/internal/models"
)

// SMTPConfigDao is a data access object for all smtp configuration related
// queries.
type SMTPConfigDao interface {
	// Insert inserts a new smtp configuration. If the configuration is
	// flagged as default, every other default is demoted first. Run inside a
	// transaction to keep the single-default invariant.
	Insert(context.Context, Queryer, *models.SMTPConfigEntity) error
	// Update updates an existing smtp configuration with the same default
	// demotion semantics as Insert.
	Update(context.Context, Queryer, *models.SMTPConfigEntity) error
	// FindAll returns all smtp configurations ordered by default first, then
	// by name.
	FindAll(context.Context, Queryer) ([]models.SMTPConfigEntity, error)
	// FindByID returns the smtp configuration with the given id.
	FindByID(context.Context, Queryer, int64) (*models.SMTPConfigEntity, error)
	// FindDefault returns the active default smtp configuration.
	FindDefault(context.Context, Queryer) (*models.SMTPConfigEntity, error)
}

// smtpConfigDao is the sqlite implementation of SMTPConfigDao.
type smtpConfigDao struct{}

// NewSMTPConfigDao creates a new SMTPConfigDao.
func NewSMTPConfigDao() SMTPConfigDao {
	return smtpConfigDao{}
}

func (d smtpConfigDao) Insert(ctx context.Context, q Queryer, config *models.SMTPConfigEntity) error {
	if config.IsDefault {
		if err := d.demoteDefaults(ctx, q, 0); err != nil {
			return err
		}
	}

	const query = `
		insert into "smtp_configs" (
			"name" ,
			"host" ,
			"port" ,
			"use_tls" ,
			"use_ssl" ,
			"username" ,
			"password" ,
			"from_email" ,
			"from_name" ,
			"allow_insecure" ,
			"is_active" ,
			"is_default" ,
			"created_at" ,
			"updated_at"
		) values (
			:name ,
			:host ,
			:port ,
			:use_tls ,
			:use_ssl ,
			:username ,
			:password ,
			:from_email ,
			:from_name ,
			:allow_insecure ,
			:is_active ,
			:is_default ,
			:created_at ,
			:updated_at
		) ;
	`

	result, err := execNamed(ctx, q, query, config)
	if err != nil {
		return err
	}

	if err := ensureRowsAffected(result); err != nil {
		return err
	}

	config.ID, err = result.LastInsertId()
	return err
}

func (d smtpConfigDao) Update(ctx context.Context, q Queryer, config *models.SMTPConfigEntity) error {
	if config.IsDefault {
		if err := d.demoteDefaults(ctx, q, config.ID); err != nil {
			return err
		}
	}

	const query = `
		update "smtp_configs"
		set "name" = :name ,
		    "host" = :host ,
		    "port" = :port ,
		    "use_tls" = :use_tls ,
		    "use_ssl" = :use_ssl ,
		    "username" = :username ,
		    "password" = :password ,
		    "from_email" = :from_email ,
		    "from_name" = :from_name ,
		    "allow_insecure" = :allow_insecure ,
		    "is_active" = :is_active ,
		    "is_default" = :is_default ,
		    "updated_at" = :updated_at
		where "id" = :id ;
	`

	result, err := execNamed(ctx, q, query, config)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

// demoteDefaults clears the default flag on every configuration except the
// one identified by keepID.
func (smtpConfigDao) demoteDefaults(ctx context.Context, q Queryer, keepID int64) error {
	const query = `
		update "smtp_configs"
		set "is_default" = false
		where "is_default" = true
		  and "id" <> $1 ;
	`

	_, err := execPositional(ctx, q, query, keepID)
	return err
}

func (smtpConfigDao) FindAll(ctx context.Context, q Queryer) ([]models.SMTPConfigEntity, error) {
	const query = `
		select *
		from "smtp_configs"
		order by "is_default" desc , "name" asc ;
	`

	var configSlice []models.SMTPConfigEntity

	if err := selectSlice(ctx, q, &configSlice, query); err != nil {
		return nil, err
	}

	return configSlice, nil
}

func (smtpConfigDao) FindByID(ctx context.Context, q Queryer, id int64) (*models.SMTPConfigEntity, error) {
	const query = `
		select *
		from "smtp_configs"
		where "id" = $1 ;
	`

	var config models.SMTPConfigEntity

	if err := selectOne(ctx, q, &config, query, id); err != nil {
		return nil, err
	}

	return &config, nil
}

func (smtpConfigDao) FindDefault(ctx context.Context, q Queryer) (*models.SMTPConfigEntity, error) {
	const query = `
		select *
		from "smtp_configs"
		where "is_default" = true
		  and "is_active" = true
		limit 1 ;
	`

	var config models.SMTPConfigEntity

	if err := selectOne(ctx, q, &config, query); err != nil {
		return nil, err
	}

	return &config, nil
}
