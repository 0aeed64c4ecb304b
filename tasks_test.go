package pdfstract_test

import (
	"errors"
	"testing"
	"time"

	"github.com/AKSarav/pdfstract"
)

func TestTaskStore_SaveGetDelete(t *testing.T) {
	store := pdfstract.NewTaskStore()
	report := &pdfstract.ComparisonReport{
		TaskID:   "task-1",
		Filename: "doc.pdf",
		Total:    2 * time.Second,
	}
	store.Save(report)

	got, err := store.Get("task-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Filename != "doc.pdf" {
		t.Errorf("Filename = %q", got.Filename)
	}

	if err := store.Delete("task-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get("task-1"); !errors.Is(err, pdfstract.ErrTaskNotFound) {
		t.Errorf("Get after Delete = %v, want ErrTaskNotFound", err)
	}
	if err := store.Delete("task-1"); !errors.Is(err, pdfstract.ErrTaskNotFound) {
		t.Errorf("second Delete = %v, want ErrTaskNotFound", err)
	}
}

func TestTaskStore_UnknownID(t *testing.T) {
	store := pdfstract.NewTaskStore()
	if _, err := store.Get("never-stored"); !errors.Is(err, pdfstract.ErrTaskNotFound) {
		t.Errorf("Get = %v, want ErrTaskNotFound", err)
	}
}

func TestTaskStore_IgnoresEmptyTaskID(t *testing.T) {
	store := pdfstract.NewTaskStore()
	store.Save(&pdfstract.ComparisonReport{Filename: "doc.pdf"})
	if ids := store.IDs(); len(ids) != 0 {
		t.Errorf("report without TaskID was stored: %v", ids)
	}
}

func TestConverter_TaskWithoutStore(t *testing.T) {
	conv, err := pdfstract.New(pdfstract.WithRegistry(newStubRegistry(&stubExtractor{name: "a"})))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer conv.Close()

	if _, err := conv.Task("anything"); !errors.Is(err, pdfstract.ErrTaskNotFound) {
		t.Errorf("Task = %v, want ErrTaskNotFound", err)
	}
	if err := conv.DeleteTask("anything"); !errors.Is(err, pdfstract.ErrTaskNotFound) {
		t.Errorf("DeleteTask = %v, want ErrTaskNotFound", err)
	}
}
