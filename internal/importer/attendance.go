// Package importer reads the files that stand in for the LMS scraper and the
// user's course configuration.
package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Noelithub77/bunkialo2-sub002/internal/logger"
	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
)

// maxParallelReads bounds concurrent file reads in a directory import.
const maxParallelReads = 4

type attendanceFile struct {
	CourseID   string            `json:"course_id"`
	CourseName string            `json:"course_name"`
	Records    []attendanceEntry `json:"records"`
}

type attendanceEntry struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Points      string `json:"points"`
}

func (f attendanceFile) toCourse() models.Course {
	c := models.Course{ID: strings.TrimSpace(f.CourseID), Name: strings.TrimSpace(f.CourseName)}
	for _, e := range f.Records {
		c.Records = append(c.Records, models.AttendanceRecord{
			Date:        e.Date,
			Description: e.Description,
			Status:      models.ParseAttendanceStatus(e.Status),
			Points:      e.Points,
		})
	}
	return c
}

// LoadAttendance reads scraped attendance from a JSON file or from every
// *.json file in a directory. A file holds one course object or an array of
// them. Courses are returned sorted by ID; an ID seen twice is an error.
func LoadAttendance(ctx context.Context, path string) ([]models.Course, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	files := []string{path}
	if info.IsDir() {
		if files, err = filepath.Glob(filepath.Join(path, "*.json")); err != nil {
			return nil, err
		}
		sort.Strings(files)
		if len(files) == 0 {
			return nil, fmt.Errorf("no .json files in %s", path)
		}
	}

	results := make([][]models.Course, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			courses, err := readAttendanceFile(file)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(file), err)
			}
			results[i] = courses
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := map[string]string{}
	var courses []models.Course
	for i, batch := range results {
		for _, c := range batch {
			if prev, ok := seen[c.ID]; ok {
				return nil, fmt.Errorf("course %s appears in both %s and %s", c.ID, prev, filepath.Base(files[i]))
			}
			seen[c.ID] = filepath.Base(files[i])
			courses = append(courses, c)
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	logger.Debug("Loaded attendance", "files", len(files), "courses", len(courses))
	return courses, nil
}

func readAttendanceFile(path string) ([]models.Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)

	var raw []attendanceFile
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid attendance JSON: %w", err)
		}
	} else {
		var one attendanceFile
		if err := json.Unmarshal(data, &one); err != nil {
			return nil, fmt.Errorf("invalid attendance JSON: %w", err)
		}
		raw = []attendanceFile{one}
	}

	courses := make([]models.Course, 0, len(raw))
	for i, f := range raw {
		c := f.toCourse()
		if c.ID == "" {
			return nil, fmt.Errorf("course %d has no course_id", i)
		}
		if c.Name == "" {
			c.Name = c.ID
		}
		courses = append(courses, c)
	}
	return courses, nil
}
