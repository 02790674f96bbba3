package core

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"edutrack-backend-go/internal/db"
	"edutrack-backend-go/internal/models"
)

// Page size defaults and the export ceiling.
const (
	DefaultLogPageSize       = 50
	DefaultDeviceLogPageSize = 20
	MaxExportRows            = 1000
)

// Placeholders substituted when a log entry references a device or user that
// has since been deleted. Entries are never dropped because of a dangling
// reference.
var (
	deletedDeviceRef = models.LogDeviceRef{ID: "deleted", Name: "Deleted Device", DeviceType: "unknown"}
	unknownActorRef  = models.LogActorRef{ID: "unknown", Username: "Unknown User", Email: "unknown@example.com", Role: "unknown"}
)

// activityService implements the ActivityService interface.
type activityService struct {
	logRepo    db.DeviceLogRepository
	deviceRepo db.DeviceRepository
	userRepo   db.UserRepository
	logger     *zap.Logger
}

// NewActivityService creates a new ActivityService instance.
func NewActivityService(logRepo db.DeviceLogRepository, deviceRepo db.DeviceRepository, userRepo db.UserRepository, logger *zap.Logger) ActivityService {
	return &activityService{
		logRepo:    logRepo,
		deviceRepo: deviceRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// describeAction renders the human-readable description for an entry. The
// default arm keeps the recorder forward-compatible with action tags outside
// the enumerated set.
func describeAction(action models.LogAction, deviceName string) string {
	switch action {
	case models.LogActionActivated:
		return fmt.Sprintf("Device %q was activated", deviceName)
	case models.LogActionDeactivated:
		return fmt.Sprintf("Device %q was deactivated", deviceName)
	case models.LogActionCreated:
		return fmt.Sprintf("Device %q was created", deviceName)
	case models.LogActionUpdated:
		return fmt.Sprintf("Device %q was updated", deviceName)
	case models.LogActionDeleted:
		return fmt.Sprintf("Device %q was deleted", deviceName)
	default:
		return fmt.Sprintf("Device %q had action: %s", deviceName, action)
	}
}

// clientIP prefers the forwarded-for header, falls back to the real-ip
// header, and never fails: absent metadata becomes the "unknown" sentinel.
func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-Ip"); ip != "" {
		return ip
	}
	return "unknown"
}

func clientUserAgent(r *http.Request) string {
	if r == nil {
		return ""
	}
	if ua := r.Header.Get("User-Agent"); ua != "" {
		return ua
	}
	return "unknown"
}

// Record appends one audit entry. Failures are logged and swallowed: the
// caller's primary mutation must never be aborted by a recording fault.
func (s *activityService) Record(ctx context.Context, p RecordParams) *models.DeviceLog {
	deviceID, err := primitive.ObjectIDFromHex(p.DeviceID)
	if err != nil {
		s.logger.Error("failed to record device activity: bad device ID",
			zap.String("deviceId", p.DeviceID), zap.Error(err))
		return nil
	}
	actorID, err := primitive.ObjectIDFromHex(p.ActorID)
	if err != nil {
		s.logger.Error("failed to record device activity: bad actor ID",
			zap.String("actorId", p.ActorID), zap.Error(err))
		return nil
	}

	entry := &models.DeviceLog{
		Device:             deviceID,
		Action:             p.Action,
		Description:        describeAction(p.Action, p.DeviceName),
		DeactivationReason: p.DeactivationReason,
		OldValues:          p.OldValues,
		NewValues:          p.NewValues,
		PerformedBy:        actorID,
		Timestamp:          time.Now().UTC(),
		IPAddress:          clientIP(p.Request),
		UserAgent:          clientUserAgent(p.Request),
	}

	if err := s.logRepo.Insert(ctx, entry); err != nil {
		s.logger.Error("failed to record device activity",
			zap.String("deviceId", p.DeviceID),
			zap.String("action", string(p.Action)),
			zap.Error(err))
		return nil
	}
	return entry
}

func (s *activityService) ListLogs(ctx context.Context, filter models.LogFilter, page, limit int) (*models.LogPage, error) {
	return s.queryPage(ctx, filter, page, limit, DefaultLogPageSize)
}

func (s *activityService) ListLogsForDevice(ctx context.Context, deviceID string, action models.LogAction, page, limit int) (*models.LogPage, error) {
	filter := models.LogFilter{DeviceID: deviceID, Action: action}
	return s.queryPage(ctx, filter, page, limit, DefaultDeviceLogPageSize)
}

func (s *activityService) queryPage(ctx context.Context, filter models.LogFilter, page, limit, defaultLimit int) (*models.LogPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	skip := int64(page-1) * int64(limit)

	logs, totalCount, err := s.logRepo.Search(ctx, filter, skip, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to search device logs: %w", err)
	}

	entries, err := s.resolveEntries(ctx, logs)
	if err != nil {
		return nil, err
	}

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))
	return &models.LogPage{
		Logs: entries,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			TotalCount: totalCount,
			TotalPages: totalPages,
			HasNext:    skip+int64(limit) < totalCount,
			HasPrev:    page > 1,
		},
	}, nil
}

// resolveEntries denormalizes device and actor references for display,
// substituting placeholders for references that no longer resolve.
func (s *activityService) resolveEntries(ctx context.Context, logs []models.DeviceLog) ([]models.LogEntry, error) {
	deviceIDs := make([]primitive.ObjectID, 0, len(logs))
	userIDs := make([]primitive.ObjectID, 0, len(logs))
	seenDevices := make(map[primitive.ObjectID]bool)
	seenUsers := make(map[primitive.ObjectID]bool)
	for _, l := range logs {
		if !seenDevices[l.Device] {
			seenDevices[l.Device] = true
			deviceIDs = append(deviceIDs, l.Device)
		}
		if !seenUsers[l.PerformedBy] {
			seenUsers[l.PerformedBy] = true
			userIDs = append(userIDs, l.PerformedBy)
		}
	}

	devices, err := s.deviceRepo.FindByIDs(ctx, deviceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve devices for log entries: %w", err)
	}
	users, err := s.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actors for log entries: %w", err)
	}

	deviceByID := make(map[primitive.ObjectID]models.Device, len(devices))
	for _, d := range devices {
		deviceByID[d.ID] = d
	}
	userByID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	entries := make([]models.LogEntry, 0, len(logs))
	for _, l := range logs {
		entry := models.LogEntry{
			ID:                 l.ID.Hex(),
			Action:             l.Action,
			Description:        l.Description,
			DeactivationReason: l.DeactivationReason,
			OldValues:          l.OldValues,
			NewValues:          l.NewValues,
			Timestamp:          l.Timestamp,
			IPAddress:          l.IPAddress,
			UserAgent:          l.UserAgent,
		}

		if d, ok := deviceByID[l.Device]; ok {
			entry.Device = models.LogDeviceRef{
				ID:         d.ID.Hex(),
				Name:       d.Name,
				DeviceType: string(d.DeviceType),
			}
		} else {
			entry.Device = deletedDeviceRef
		}

		if u, ok := userByID[l.PerformedBy]; ok {
			entry.PerformedBy = models.LogActorRef{
				ID:       u.ID.Hex(),
				Username: u.Username,
				Email:    u.Email,
				Role:     string(u.Role),
			}
		} else {
			entry.PerformedBy = unknownActorRef
		}

		entries = append(entries, entry)
	}
	return entries, nil
}

// ExportLogs flattens the filtered trail to CSV rows, newest first. The "N/A"
// sentinel marks a reason or IP that does not apply.
func (s *activityService) ExportLogs(ctx context.Context, filter models.LogFilter, limit int) ([][]string, error) {
	if limit <= 0 || limit > MaxExportRows {
		limit = MaxExportRows
	}

	logs, _, err := s.logRepo.Search(ctx, filter, 0, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to search device logs for export: %w", err)
	}

	entries, err := s.resolveEntries(ctx, logs)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, []string{"Timestamp", "Device", "Action", "Description", "Deactivation Reason", "Performed By", "IP Address"})
	for _, e := range entries {
		reason := e.DeactivationReason
		if reason == "" {
			reason = "N/A"
		}
		ip := e.IPAddress
		if ip == "" {
			ip = "N/A"
		}
		rows = append(rows, []string{
			e.Timestamp.UTC().Format(time.RFC3339),
			e.Device.Name,
			string(e.Action),
			e.Description,
			reason,
			e.PerformedBy.Username,
			ip,
		})
	}
	return rows, nil
}
