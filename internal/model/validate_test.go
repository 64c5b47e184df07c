package model

import (
	"strings"
	"testing"
	"time"
)

func validEvent() *Event {
	return &Event{
		Title:        "Sunset kayak",
		CreatorID:    "user-1",
		LocationName: "Lisbon",
		Latitude:     38.72,
		Longitude:    -9.14,
		StartTime:    time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC),
	}
}

func TestValidateEvent_Valid(t *testing.T) {
	if err := ValidateEvent(validEvent()); err != nil {
		t.Errorf("expected valid event, got %v", err)
	}
}

func TestValidateEvent_MissingStartTime(t *testing.T) {
	e := validEvent()
	e.StartTime = time.Time{}
	err := ValidateEvent(e)
	if err == nil {
		t.Fatal("expected error for zero start_time")
	}
	if !strings.Contains(err.Error(), "start_time") {
		t.Errorf("error should mention start_time, got %v", err)
	}
}

func TestValidateEvent_EndBeforeStart(t *testing.T) {
	e := validEvent()
	end := e.StartTime.Add(-time.Hour)
	e.EndTime = &end
	if err := ValidateEvent(e); err == nil {
		t.Error("expected error when end_time precedes start_time")
	}
}

func TestValidateEvent_BadCoordinates(t *testing.T) {
	e := validEvent()
	e.Latitude = 91
	if err := ValidateEvent(e); err == nil {
		t.Error("expected error for latitude out of range")
	}
	e = validEvent()
	e.Longitude = -181
	if err := ValidateEvent(e); err == nil {
		t.Error("expected error for longitude out of range")
	}
}

func TestValidateProfile(t *testing.T) {
	for _, tc := range []struct {
		name    string
		profile Profile
		wantErr bool
	}{
		{"valid", Profile{Username: "ana"}, false},
		{"empty username", Profile{}, true},
		{"whitespace username", Profile{Username: "an a"}, true},
		{"long username", Profile{Username: strings.Repeat("x", 51)}, true},
		{"long bio", Profile{Username: "ana", Bio: strings.Repeat("b", 1001)}, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateProfile(&tc.profile)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateProfile() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidatePost(t *testing.T) {
	if err := ValidatePost(&Post{Content: "hello", Type: PostStory}); err != nil {
		t.Errorf("expected valid post, got %v", err)
	}
	if err := ValidatePost(&Post{Content: "  ", Type: PostStory}); err == nil {
		t.Error("expected error for blank content")
	}
	if err := ValidatePost(&Post{Content: "hello", Type: "video"}); err == nil {
		t.Error("expected error for unknown post type")
	}
}

func TestValidatePlace(t *testing.T) {
	p := &Place{Name: "Miradouro", Category: "viewpoint", Latitude: 38.7, Longitude: -9.1}
	if err := ValidatePlace(p); err != nil {
		t.Errorf("expected valid place, got %v", err)
	}
	if err := ValidatePlace(&Place{Category: "viewpoint"}); err == nil {
		t.Error("expected error for missing name")
	}
	if err := ValidatePlace(&Place{Name: "x"}); err == nil {
		t.Error("expected error for missing category")
	}
}

func TestPointsFor(t *testing.T) {
	for _, tc := range []struct {
		action ActionType
		want   int
	}{
		{ActionPostCreate, 10},
		{ActionPostLike, 2},
		{ActionCommentCreate, 5},
		{ActionFollow, 3},
		{ActionEventCreate, 15},
		{ActionEventJoin, 7},
		{ActionDailyLogin, 1},
		{ActionProfileComplete, 20},
		{ActionLocationVisit, 5},
		{ActionType("bogus"), 0},
	} {
		if got := PointsFor(tc.action); got != tc.want {
			t.Errorf("PointsFor(%q) = %d, want %d", tc.action, got, tc.want)
		}
	}
}

func TestParticipantStatusIsValid(t *testing.T) {
	for _, s := range []ParticipantStatus{StatusGoing, StatusMaybe, StatusInvited} {
		if !s.IsValid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if ParticipantStatus("not_going").IsValid() {
		t.Error("not_going should be invalid")
	}
}
