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

// TemplateDao is a data access object for all template related queries.
type TemplateDao interface {
	// Insert inserts a new template.
	Insert(context.Context, Queryer, *models.TemplateEntity) error
	// Update updates an existing template.
	Update(context.Context, Queryer, *models.TemplateEntity) error
	// FindAll returns all templates ordered by trigger type and name.
	FindAll(context.Context, Queryer) ([]models.TemplateEntity, error)
	// FindByID returns the template with the given id.
	FindByID(context.Context, Queryer, int64) (*models.TemplateEntity, error)
}

// templateDao is the sqlite implementation of TemplateDao.
type templateDao struct{}

// NewTemplateDao creates a new TemplateDao.
func NewTemplateDao() TemplateDao {
	return templateDao{}
}

func (templateDao) Insert(ctx context.Context, q Queryer, template *models.TemplateEntity) error {
	const query = `
		insert into "templates" (
			"name" ,
			"trigger_type" ,
			"subject" ,
			"html_content" ,
			"text_content" ,
			"variables" ,
			"is_active" ,
			"created_at" ,
			"updated_at"
		) values (
			:name ,
			:trigger_type ,
			:subject ,
			:html_content ,
			:text_content ,
			:variables ,
			:is_active ,
			:created_at ,
			:updated_at
		) ;
	`

	result, err := execNamed(ctx, q, query, template)
	if err != nil {
		return err
	}

	if err := ensureRowsAffected(result); err != nil {
		return err
	}

	template.ID, err = result.LastInsertId()
	return err
}

func (templateDao) Update(ctx context.Context, q Queryer, template *models.TemplateEntity) error {
	const query = `
		update "templates"
		set "name" = :name ,
		    "trigger_type" = :trigger_type ,
		    "subject" = :subject ,
		    "html_content" = :html_content ,
		    "text_content" = :text_content ,
		    "variables" = :variables ,
		    "is_active" = :is_active ,
		    "updated_at" = :updated_at
		where "id" = :id ;
	`

	result, err := execNamed(ctx, q, query, template)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

func (templateDao) FindAll(ctx context.Context, q Queryer) ([]models.TemplateEntity, error) {
	const query = `
		select *
		from "templates"
		order by "trigger_type" asc , "name" asc ;
	`

	var templateSlice []models.TemplateEntity

	if err := selectSlice(ctx, q, &templateSlice, query); err != nil {
		return nil, err
	}

	return templateSlice, nil
}

func (templateDao) FindByID(ctx context.Context, q Queryer, id int64) (*models.TemplateEntity, error) {
	const query = `
		select *
		from "templates"
		where "id" = $1 ;
	`

	var template models.TemplateEntity

	if err := selectOne(ctx, q, &template, query, id); err != nil {
		return nil, err
	}

	return &template, nil
}
