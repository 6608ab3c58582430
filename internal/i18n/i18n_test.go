package i18n

import (
	"context"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "AppTitle")
	if got != "StudyHub" {
		t.Errorf("T(AppTitle) = %q, want 'StudyHub'", got)
	}

	got = T(ctx, "ConfidenceFirstCheck")
	if got != "This is your first confidence check for this topic!" {
		t.Errorf("T(ConfidenceFirstCheck) = %q", got)
	}
}

func TestTranslateRussian(t *testing.T) {
	ctx := initLang(t, "ru")

	got := T(ctx, "AppTitle")
	if got != "Учебный центр" {
		t.Errorf("T(AppTitle) = %q, want 'Учебный центр'", got)
	}

	got = T(ctx, "ConfidenceFirstCheck")
	if got != "Это ваша первая проверка уверенности по этой теме!" {
		t.Errorf("T(ConfidenceFirstCheck) = %q", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got1 := Tp(ctx, "QuestionsGenerated", 1)
	if got1 != "1 question generated." {
		t.Errorf("Tp(QuestionsGenerated, 1) = %q, want '1 question generated.'", got1)
	}

	got5 := Tp(ctx, "QuestionsGenerated", 5)
	if got5 != "5 questions generated." {
		t.Errorf("Tp(QuestionsGenerated, 5) = %q, want '5 questions generated.'", got5)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "ConfidenceMore", map[string]any{"Date": "March 1, 2026"})
	if got != "You are now more confident than you were on March 1, 2026" {
		t.Errorf("Td(ConfidenceMore) = %q", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "NonExistentKey")
	if got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}
