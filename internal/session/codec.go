package session

import (
	"encoding/json"
	"fmt"
)

type envelope struct {
	SessionType Kind `json:"sessionType"`
}

// Encode serializes a session as a flat JSON object tagged by sessionType.
func Encode(s Session) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	switch v := s.(type) {
	case *RaidWorkflow:
		type payload RaidWorkflow
		b, err = json.Marshal(struct {
			SessionType Kind `json:"sessionType"`
			payload
		}{KindRaidWorkflow, payload(*v)})
	case *DetectionWorkflow:
		type payload DetectionWorkflow
		b, err = json.Marshal(struct {
			SessionType Kind `json:"sessionType"`
			payload
		}{KindDetectionWorkflow, payload(*v)})
	case *ReportGeneration:
		type payload ReportGeneration
		b, err = json.Marshal(struct {
			SessionType Kind `json:"sessionType"`
			payload
		}{KindReportGeneration, payload(*v)})
	default:
		return nil, fmt.Errorf("unsupported session type %T", s)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode session %s: %w", s.ID(), err)
	}
	return b, nil
}

func Decode(data []byte) (Session, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode session envelope: %w", err)
	}
	var s Session
	switch env.SessionType {
	case KindRaidWorkflow:
		s = &RaidWorkflow{}
	case KindDetectionWorkflow:
		s = &DetectionWorkflow{}
	case KindReportGeneration:
		s = &ReportGeneration{}
	default:
		return nil, fmt.Errorf("unknown session type %q", env.SessionType)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to decode %s session: %w", env.SessionType, err)
	}
	return s, nil
}
