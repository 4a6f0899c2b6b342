package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"lpg_assistant/internal/models"
	"lpg_assistant/internal/repository"
	"lpg_assistant/pkg/phone"
	"lpg_assistant/pkg/vapi"
)

// Transcripts are capped so a long call cannot blow up the row.
const maxTranscriptLength = 10000

type CallSummaryService interface {
	// RecordSummary extracts call metadata from the event and upserts one row
	// keyed on the call id. msg must carry a call id; the handler checks first.
	RecordSummary(msg *vapi.Message) (*models.CallSummary, error)
	GetAllSummaries() ([]models.CallSummary, error)
}

type callSummaryService struct {
	summaryRepo     repository.CallSummaryRepository
	customerService CustomerService
}

func NewCallSummaryService(summaryRepo repository.CallSummaryRepository, customerService CustomerService) CallSummaryService {
	return &callSummaryService{summaryRepo: summaryRepo, customerService: customerService}
}

func (s *callSummaryService) RecordSummary(msg *vapi.Message) (*models.CallSummary, error) {
	summary := &models.CallSummary{CallID: msg.CallIDValue()}

	// Only columns present in the payload are overwritten on resubmission.
	columns := []string{}

	if number := phone.Normalize(msg.CallerNumber()); number != "" {
		summary.PhoneNumber = number
		columns = append(columns, "phone_number")

		customer, err := s.customerService.GetCustomerByPhone(number)
		if err == nil && customer != nil {
			summary.CustomerID = &customer.ID
			columns = append(columns, "customer_id")
		}
	}

	duration := msg.Duration()
	if duration != nil {
		summary.DurationSeconds = duration
		columns = append(columns, "duration_seconds")
	}

	if transcript := buildTranscript(msg.Messages); transcript != "" {
		summary.Transcript = transcript
		columns = append(columns, "transcript")
	}

	summary.Summary = buildSummarySentence(duration, msg.EndedReason)
	columns = append(columns, "summary")

	if msg.EndedReason != "" {
		summary.EndedReason = msg.EndedReason
		columns = append(columns, "ended_reason")
	}

	if msg.Assistant != nil {
		toolCounts, err := json.Marshal(map[string]int{
			"tool_ids": len(msg.Assistant.Model.ToolIDs),
			"tools":    len(msg.Assistant.Model.Tools),
		})
		if err == nil {
			summary.ToolCalls = string(toolCounts)
			columns = append(columns, "tool_calls")
		}
	}

	if err := s.summaryRepo.Upsert(summary, columns); err != nil {
		return nil, fmt.Errorf("failed to save call summary: %w", err)
	}

	return summary, nil
}

func (s *callSummaryService) GetAllSummaries() ([]models.CallSummary, error) {
	return s.summaryRepo.GetAll()
}

func buildTranscript(messages []vapi.TranscriptMessage) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		text := m.Content()
		if text == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, text))
	}

	transcript := strings.Join(lines, "\n")
	if len(transcript) > maxTranscriptLength {
		transcript = transcript[:maxTranscriptLength]
	}
	return transcript
}

func buildSummarySentence(duration *int, endedReason string) string {
	durationText := "unknown"
	if duration != nil {
		durationText = strconv.Itoa(*duration)
	}
	return fmt.Sprintf("Call lasted %s seconds. Ended due to: %s.", durationText, endedReason)
}
