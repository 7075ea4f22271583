// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// CreateRun records a completed mirror run. The slug is derived from
// the host and start time when the caller leaves it empty.
func (s *Store) CreateRun(run *Run) (*Run, error) {
	if run.Slug == "" {
		run.Slug = NewRunSlug(run.Host, time.Unix(run.StartedAt, 0))
	}

	if err := s.db.Create(run).Error; err != nil {
		return nil, fmt.Errorf("failed to create run: %v", err)
	}

	return run, nil
}

// ListRuns returns runs ordered newest first. A limit of 0 or less
// returns all of them.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	var runs []Run
	db := s.db.Order("started_at DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if result := db.Find(&runs); result.Error != nil {
		return nil, fmt.Errorf("failed to list runs: %v", result.Error)
	}
	return runs, nil
}

// ListRunsForHost returns all runs for one host, newest first
func (s *Store) ListRunsForHost(host string) ([]Run, error) {
	var runs []Run
	result := s.db.Where("host = ?", host).Order("started_at DESC").Find(&runs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list runs: %v", result.Error)
	}
	return runs, nil
}

// GetRunByID gets a run by ID
func (s *Store) GetRunByID(id uint) (*Run, error) {
	var run Run
	result := s.db.First(&run, id)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get run: %v", result.Error)
	}
	return &run, nil
}

// GetLatestRun gets the most recent run, optionally filtered by host.
// It returns nil without an error when no run matches.
func (s *Store) GetLatestRun(host string) (*Run, error) {
	var run Run
	db := s.db.Order("started_at DESC")
	if host != "" {
		db = db.Where("host = ?", host)
	}
	result := db.First(&run)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest run: %v", result.Error)
	}
	return &run, nil
}

// DeleteRun deletes a run record
func (s *Store) DeleteRun(id uint) error {
	return s.db.Delete(&Run{}, id).Error
}
