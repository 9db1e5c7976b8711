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

// TriggerDao is a data access object for all trigger related queries.
type TriggerDao interface {
	// Insert inserts a new trigger.
	Insert(context.Context, Queryer, *models.TriggerEntity) error
	// Update updates an existing trigger.
	Update(context.Context, Queryer, *models.TriggerEntity) error
	// FindAll returns all triggers ordered by priority, trigger type and
	// name.
	FindAll(context.Context, Queryer) ([]models.TriggerEntity, error)
	// FindByID returns the trigger with the given id.
	FindByID(context.Context, Queryer, int64) (*models.TriggerEntity, error)
	// FindActiveByType returns all active triggers for a trigger type.
	// Triggers are ordered by priority descending with creation order as the
	// deterministic tiebreaker, so the first element is the one to dispatch.
	FindActiveByType(context.Context, Queryer, models.TriggerType) ([]models.TriggerEntity, error)
}

// triggerDao is the sqlite implementation of TriggerDao.
type triggerDao struct{}

// NewTriggerDao creates a new TriggerDao.
func NewTriggerDao() TriggerDao {
	return triggerDao{}
}

func (triggerDao) Insert(ctx context.Context, q Queryer, trigger *models.TriggerEntity) error {
	const query = `
		insert into "triggers" (
			"name" ,
			"trigger_type" ,
			"template_id" ,
			"smtp_config_id" ,
			"is_active" ,
			"priority" ,
			"delay_minutes" ,
			"conditions" ,
			"created_at" ,
			"updated_at"
		) values (
			:name ,
			:trigger_type ,
			:template_id ,
			:smtp_config_id ,
			:is_active ,
			:priority ,
			:delay_minutes ,
			:conditions ,
			:created_at ,
			:updated_at
		) ;
	`

	result, err := execNamed(ctx, q, query, trigger)
	if err != nil {
		return err
	}

	if err := ensureRowsAffected(result); err != nil {
		return err
	}

	trigger.ID, err = result.LastInsertId()
	return err
}

func (triggerDao) Update(ctx context.Context, q Queryer, trigger *models.TriggerEntity) error {
	const query = `
		update "triggers"
		set "name" = :name ,
		    "trigger_type" = :trigger_type ,
		    "template_id" = :template_id ,
		    "smtp_config_id" = :smtp_config_id ,
		    "is_active" = :is_active ,
		    "priority" = :priority ,
		    "delay_minutes" = :delay_minutes ,
		    "conditions" = :conditions ,
		    "updated_at" = :updated_at
		where "id" = :id ;
	`

	result, err := execNamed(ctx, q, query, trigger)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

func (triggerDao) FindAll(ctx context.Context, q Queryer) ([]models.TriggerEntity, error) {
	const query = `
		select *
		from "triggers"
		order by "priority" desc , "trigger_type" asc , "name" asc ;
	`

	var triggerSlice []models.TriggerEntity

	if err := selectSlice(ctx, q, &triggerSlice, query); err != nil {
		return nil, err
	}

	return triggerSlice, nil
}

func (triggerDao) FindByID(ctx context.Context, q Queryer, id int64) (*models.TriggerEntity, error) {
	const query = `
		select *
		from "triggers"
		where "id" = $1 ;
	`

	var trigger models.TriggerEntity

	if err := selectOne(ctx, q, &trigger, query, id); err != nil {
		return nil, err
	}

	return &trigger, nil
}

func (triggerDao) FindActiveByType(
	ctx context.Context,
	q Queryer,
	triggerType models.TriggerType,
) ([]models.TriggerEntity, error) {
	const query = `
		select *
		from "triggers"
		where "trigger_type" = $1
		  and "is_active" = true
		order by "priority" desc , "created_at" asc , "id" asc ;
	`

	var triggerSlice []models.TriggerEntity

	if err := selectSlice(ctx, q, &triggerSlice, query, triggerType); err != nil {
		return nil, err
	}

	return triggerSlice, nil
}
