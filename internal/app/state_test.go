package app

import (
	"errors"
	"reflect"
	"testing"
)

func stateWithSummary(text string) State {
	return NewState().SetTranscript("src").ApplySummary("src", text)
}

func TestNewState(t *testing.T) {
	s := NewState()
	if s.Prompt != DefaultPrompt {
		t.Errorf("prompt = %q, want %q", s.Prompt, DefaultPrompt)
	}
	if s.Subject != DefaultSubject {
		t.Errorf("subject = %q, want %q", s.Subject, DefaultSubject)
	}
	if s.Summary != nil {
		t.Error("new state should have no summary")
	}
	if s.Busy {
		t.Error("new state should not be busy")
	}
}

func TestSetTranscriptAllowsEmpty(t *testing.T) {
	s := NewState().SetTranscript("hello").SetTranscript("")
	if s.Transcript != "" {
		t.Errorf("transcript = %q, want empty", s.Transcript)
	}
}

func TestStartSummaryRequiresTranscript(t *testing.T) {
	for _, transcript := range []string{"", "   ", "\n\t"} {
		s := NewState().SetTranscript(transcript)
		next, _, ok := s.StartSummary()
		if ok {
			t.Errorf("StartSummary(%q) ok = true, want false", transcript)
		}
		if next.Busy {
			t.Errorf("StartSummary(%q) set busy", transcript)
		}
	}
}

func TestStartSummaryBlocksWhileBusy(t *testing.T) {
	s := NewState().SetTranscript("We discussed Q3 budget.")
	s, req, ok := s.StartSummary()
	if !ok || !s.Busy {
		t.Fatal("first StartSummary should succeed and set busy")
	}
	if req.Text != "We discussed Q3 budget." || req.Prompt != DefaultPrompt {
		t.Errorf("request = %+v", req)
	}
	if s.CanSummarize() {
		t.Error("CanSummarize should be false while busy")
	}
	if _, _, ok := s.StartSummary(); ok {
		t.Error("second StartSummary should be rejected while busy")
	}
}

func TestApplySummaryPinsSource(t *testing.T) {
	s := NewState().SetTranscript("We discussed Q3 budget.").SetPrompt("Summarize in bullet points")
	s, req, _ := s.StartSummary()

	// The user keeps typing while the call is in flight.
	s = s.SetTranscript("We discussed Q3 budget. And Q4.")
	s = s.ApplySummary(req.Text, "- Q3 budget discussed")

	if s.Busy {
		t.Error("busy should clear on success")
	}
	if s.Summary == nil {
		t.Fatal("summary not created")
	}
	if s.Summary.Text != "- Q3 budget discussed" {
		t.Errorf("summary = %q", s.Summary.Text)
	}
	if s.Summary.Editing {
		t.Error("new summary should be in viewing mode")
	}
	if s.Summary.SourceText != "We discussed Q3 budget." {
		t.Errorf("source = %q, want transcript used for the call", s.Summary.SourceText)
	}
}

func TestApplySummaryReplacesEditingRecord(t *testing.T) {
	s := stateWithSummary("old").BeginEdit().UpdateDraft("edited")
	s = s.ApplySummary("src", "new")
	if s.Summary.Text != "new" || s.Summary.Editing {
		t.Errorf("summary = %+v, want fresh viewing record", *s.Summary)
	}
}

func TestFailSummaryKeepsRecord(t *testing.T) {
	s := NewState().SetTranscript("x")
	s, _, _ = s.StartSummary()
	s = s.FailSummary()
	if s.Busy {
		t.Error("busy should clear on failure")
	}
	if s.Summary != nil {
		t.Error("failure should not create a summary")
	}

	s = stateWithSummary("keep")
	s, _, _ = s.StartSummary()
	s = s.FailSummary()
	if s.Summary == nil || s.Summary.Text != "keep" {
		t.Errorf("failure altered existing summary: %+v", s.Summary)
	}
}

func TestBeginEditWithoutSummaryIsNoop(t *testing.T) {
	s := NewState().BeginEdit()
	if s.Summary != nil || s.Editing() {
		t.Error("BeginEdit without a summary should do nothing")
	}
}

func TestEditIdentity(t *testing.T) {
	s := stateWithSummary("- Q3 budget discussed")
	s = s.BeginEdit()
	if !s.Editing() {
		t.Fatal("BeginEdit should enter editing")
	}
	s = s.CommitEdit()
	if s.Editing() {
		t.Error("CommitEdit should leave editing")
	}
	if s.Summary.Text != "- Q3 budget discussed" {
		t.Errorf("text = %q, want unchanged", s.Summary.Text)
	}
}

func TestUpdateDraftThenCommit(t *testing.T) {
	for _, x := range []string{"", "1. New text", "line one\nline two\n"} {
		s := stateWithSummary("orig").BeginEdit().UpdateDraft(x).CommitEdit()
		if s.Summary.Text != x {
			t.Errorf("text = %q, want %q", s.Summary.Text, x)
		}
	}
}

func TestUpdateDraftOnlyWhileEditing(t *testing.T) {
	s := stateWithSummary("orig").UpdateDraft("ignored")
	if s.Summary.Text != "orig" {
		t.Errorf("text = %q, UpdateDraft should be ignored outside editing", s.Summary.Text)
	}
}

func TestReducersDoNotMutateReceiver(t *testing.T) {
	before := stateWithSummary("orig")
	after := before.BeginEdit().UpdateDraft("changed")
	if before.Summary.Editing || before.Summary.Text != "orig" {
		t.Errorf("earlier state mutated: %+v", *before.Summary)
	}
	if after.Summary.Text != "changed" {
		t.Errorf("after = %q", after.Summary.Text)
	}
}

func TestParseRecipients(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"a@x.com, b@y.com", []string{"a@x.com", "b@y.com"}},
		{"a@x.com", []string{"a@x.com"}},
		{" a@x.com ,a@x.com", []string{"a@x.com", "a@x.com"}},
		{"c@z.com,a@x.com,b@y.com", []string{"c@z.com", "a@x.com", "b@y.com"}},
		{"a@x.com,,b@y.com", []string{"a@x.com", "", "b@y.com"}},
	}
	for _, tt := range tests {
		got := ParseRecipients(tt.raw)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseRecipients(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestStartEmailPreconditions(t *testing.T) {
	// No summary.
	s := NewState().SetRecipients("a@x.com")
	if _, _, _, ok := s.StartEmail(); ok {
		t.Error("StartEmail without summary should fail")
	}

	// Blank recipients.
	for _, raw := range []string{"", "   "} {
		s := stateWithSummary("sum").SetRecipients(raw)
		if _, _, _, ok := s.StartEmail(); ok {
			t.Errorf("StartEmail(%q) should fail", raw)
		}
	}
}

func TestStartEmailBuildsRequest(t *testing.T) {
	s := stateWithSummary("sum").BeginEdit().UpdateDraft("edited sum").
		SetRecipients("a@x.com, b@y.com").SetSubject("Sync notes")
	_, req, seq, ok := s.StartEmail()
	if !ok {
		t.Fatal("StartEmail should succeed")
	}
	if seq != 1 {
		t.Errorf("seq = %d, want 1", seq)
	}
	if req.Summary != "edited sum" {
		t.Errorf("summary = %q, want latest edit", req.Summary)
	}
	if !reflect.DeepEqual(req.Recipients, []string{"a@x.com", "b@y.com"}) {
		t.Errorf("recipients = %q", req.Recipients)
	}
	if req.Subject != "Sync notes" {
		t.Errorf("subject = %q", req.Subject)
	}
}

func TestApplyEmailSentClearsRecipients(t *testing.T) {
	s := stateWithSummary("sum").SetRecipients("a@x.com")
	s, _, seq, _ := s.StartEmail()
	s = s.ApplyEmailSent(seq)
	if s.Recipients != "" {
		t.Errorf("recipients = %q, want cleared", s.Recipients)
	}
	if s.Notice.Kind != NoticeSuccess {
		t.Errorf("notice = %+v, want success", s.Notice)
	}
}

func TestStaleEmailSuccessKeepsNewerInput(t *testing.T) {
	s := stateWithSummary("sum").SetRecipients("a@x.com")
	s, _, first, _ := s.StartEmail()
	s = s.SetRecipients("b@y.com")
	s, _, _, _ = s.StartEmail()
	s = s.SetRecipients("c@z.com")

	s = s.ApplyEmailSent(first)
	if s.Recipients != "c@z.com" {
		t.Errorf("recipients = %q, stale response cleared newer input", s.Recipients)
	}
	if !s.Notice.Active() {
		t.Error("stale response should still notify")
	}
}

func TestApplyEmailFailedRetainsState(t *testing.T) {
	s := stateWithSummary("sum").SetRecipients("a@x.com, b@y.com")
	s, _, _, _ = s.StartEmail()
	s = s.ApplyEmailFailed(errors.New("server returned 500"))
	if s.Recipients != "a@x.com, b@y.com" {
		t.Errorf("recipients = %q, want retained", s.Recipients)
	}
	if s.Notice.Kind != NoticeFailure {
		t.Errorf("notice = %+v, want failure", s.Notice)
	}
	if s.Summary.Text != "sum" {
		t.Errorf("summary altered: %q", s.Summary.Text)
	}
	s = s.DismissNotice()
	if s.Notice.Active() {
		t.Error("notice should be dismissed")
	}
}

func TestUploadFencing(t *testing.T) {
	s := NewState()
	s, first := s.StartUpload("a.txt")
	s, second := s.StartUpload("b.txt")

	next, ok := s.ApplyUpload(second, "B")
	if !ok || next.Transcript != "B" {
		t.Fatalf("latest upload not applied: ok=%v transcript=%q", ok, next.Transcript)
	}
	s = next

	next, ok = s.ApplyUpload(first, "A")
	if ok {
		t.Error("stale upload should be rejected")
	}
	if next.Transcript != "B" {
		t.Errorf("transcript = %q, stale upload overwrote newer", next.Transcript)
	}
	if s.FileName != "b.txt" {
		t.Errorf("fileName = %q", s.FileName)
	}
}

func TestIncomingTextNormalizesLineEndings(t *testing.T) {
	s, seq := NewState().StartUpload("a.txt")
	s, _ = s.ApplyUpload(seq, "one\r\ntwo\rthree")
	if s.Transcript != "one\ntwo\nthree" {
		t.Errorf("transcript = %q", s.Transcript)
	}
	s = s.ApplySummary("src", "1. a\r\n2. b")
	if s.Summary.Text != "1. a\n2. b" {
		t.Errorf("summary = %q", s.Summary.Text)
	}
}
