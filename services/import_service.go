package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/st20/course_exam/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type QuestionImport struct {
	Course        string          `json:"course" validate:"required"`
	Topic         string          `json:"topic" validate:"required"`
	Type          string          `json:"type" validate:"required"`
	Question      string          `json:"question" validate:"required"`
	Options       []string        `json:"options,omitempty"`
	CorrectAnswer json.RawMessage `json:"correct_answer" validate:"required"`
	Explanation   string          `json:"explanation,omitempty"`
	TimeLimit     *int            `json:"time_limit,omitempty" validate:"omitempty,min=1"`
}

type ImportReport struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
}

// ImportQuestions runs the whole batch, collecting per-item errors instead
// of aborting. Missing courses and topics are created on the fly; a new
// topic gets the next free number within its course.
func ImportQuestions(db *gorm.DB, items []QuestionImport) ImportReport {
	report := ImportReport{Errors: make([]string, 0)}

	for i, item := range items {
		err := db.Transaction(func(tx *gorm.DB) error {
			return importOne(tx, item)
		})
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("question %d: %v", i+1, err))
			continue
		}
		report.Imported++
	}

	return report
}

func importOne(tx *gorm.DB, item QuestionImport) error {
	var typeID int
	switch item.Type {
	case "True or False":
		typeID = models.TypeTrueFalse
	case "Multiple Choice":
		typeID = models.TypeMultipleChoice
	default:
		return fmt.Errorf("unknown question type %q", item.Type)
	}

	var course models.Course
	err := tx.Where("name = ?", item.Course).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		course = models.Course{Name: item.Course}
		err = tx.Create(&course).Error
	}
	if err != nil {
		return fmt.Errorf("resolve course %q: %w", item.Course, err)
	}

	var topic models.Topic
	err = tx.Where("course_id = ? AND name = ?", course.ID, item.Topic).First(&topic).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		number, nerr := NextTopicNumber(tx, course.ID)
		if nerr != nil {
			return nerr
		}
		topic = models.Topic{CourseID: course.ID, Name: item.Topic, Number: number}
		err = tx.Create(&topic).Error
	}
	if err != nil {
		return fmt.Errorf("resolve topic %q: %w", item.Topic, err)
	}

	data, err := buildQuestionData(typeID, item)
	if err != nil {
		return err
	}
	if err := models.ValidatePayload(typeID, data); err != nil {
		return err
	}

	question := models.Question{
		TopicID:      topic.ID,
		TypeID:       typeID,
		QuestionData: data,
		TimeLimit:    item.TimeLimit,
	}
	return tx.Create(&question).Error
}

func buildQuestionData(typeID int, item QuestionImport) (string, error) {
	switch typeID {
	case models.TypeTrueFalse:
		var correct bool
		if err := json.Unmarshal(item.CorrectAnswer, &correct); err != nil {
			return "", errors.New("correct_answer must be a boolean for a true/false question")
		}
		payload, err := json.Marshal(models.TrueFalsePayload{
			Question:      item.Question,
			CorrectAnswer: correct,
			Explanation:   item.Explanation,
		})
		return string(payload), err
	default:
		var correct int
		if err := json.Unmarshal(item.CorrectAnswer, &correct); err != nil {
			return "", errors.New("correct_answer must be an option index for a multiple choice question")
		}
		payload, err := json.Marshal(models.MultipleChoicePayload{
			Question:      item.Question,
			Options:       item.Options,
			CorrectAnswer: correct,
			Explanation:   item.Explanation,
		})
		return string(payload), err
	}
}

// NextTopicNumber assigns topic ordinals as max(existing)+1 within a course.
// The composite unique index on (course_id, number) turns a racing creation
// into a constraint error instead of a silent duplicate.
func NextTopicNumber(tx *gorm.DB, courseID uint) (int, error) {
	var max int
	err := tx.Model(&models.Topic{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(MAX(number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("next topic number: %w", err)
	}
	return max + 1, nil
}

// ParseWorkbook reads question imports from the first sheet of a workbook.
// Expected columns: course, topic, type, question, options (pipe separated),
// correct_answer, explanation, time_limit. A header row is skipped.
func ParseWorkbook(r io.Reader) ([]QuestionImport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read workbook rows: %w", err)
	}

	items := make([]QuestionImport, 0, len(rows))
	for i, row := range rows {
		if i == 0 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "course") {
			continue
		}
		if isBlankRow(row) {
			continue
		}
		item, err := parseWorkbookRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func parseWorkbookRow(row []string) (QuestionImport, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	item := QuestionImport{
		Course:      cell(0),
		Topic:       cell(1),
		Type:        cell(2),
		Question:    cell(3),
		Explanation: cell(6),
	}

	if options := cell(4); options != "" {
		for _, opt := range strings.Split(options, "|") {
			item.Options = append(item.Options, strings.TrimSpace(opt))
		}
	}

	correct := cell(5)
	switch item.Type {
	case "True or False":
		v, err := strconv.ParseBool(strings.ToLower(correct))
		if err != nil {
			return item, fmt.Errorf("correct_answer %q is not a boolean", correct)
		}
		item.CorrectAnswer, _ = json.Marshal(v)
	case "Multiple Choice":
		v, err := strconv.Atoi(correct)
		if err != nil {
			return item, fmt.Errorf("correct_answer %q is not an option index", correct)
		}
		item.CorrectAnswer, _ = json.Marshal(v)
	default:
		return item, fmt.Errorf("unknown question type %q", item.Type)
	}

	if limit := cell(7); limit != "" {
		v, err := strconv.Atoi(limit)
		if err != nil {
			return item, fmt.Errorf("time_limit %q is not a number", limit)
		}
		item.TimeLimit = &v
	}

	return item, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
