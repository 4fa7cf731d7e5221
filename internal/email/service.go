package emailService

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

const (
	subjectRegistrationConfirmation  = "Confirm your registration"
	templateRegistrationConfirmation = "registration_confirmation.html"
	subjectSubscriptionPromoted      = "A subscription was added to your expenses"
	templateSubscriptionPromoted     = "subscription_promoted.html"
	subjectPasswordReset             = "Reset your password"
	templatePasswordReset            = "password_reset.html"
)

type EmailData interface {
	TemplateFileName() string
	Subject() string
}

type EmailSender interface {
	QueueEmail(to string, data EmailData)
}

type RegistrationConfirmationData struct {
	UserName string
	Code     string
}

func (r RegistrationConfirmationData) TemplateFileName() string {
	return templateRegistrationConfirmation
}

func (r RegistrationConfirmationData) Subject() string {
	return subjectRegistrationConfirmation
}

// SubscriptionPromotedData notifies a user that a due subscription was
// turned into an expense.
type SubscriptionPromotedData struct {
	UserName    string
	Description string
	Amount      string
	Currency    string
}

func (s SubscriptionPromotedData) TemplateFileName() string {
	return templateSubscriptionPromoted
}

func (s SubscriptionPromotedData) Subject() string {
	return subjectSubscriptionPromoted
}

type PasswordResetData struct {
	UserName string
	Code     string
}

func (p PasswordResetData) TemplateFileName() string {
	return templatePasswordReset
}

func (p PasswordResetData) Subject() string {
	return subjectPasswordReset
}

type EmailService struct {
	from         string
	password     string
	templatesDir string
	smtpHost     string
	smtpPort     string
	taskQueue    chan EmailTask
}

type EmailTask struct {
	to           string
	templateFile string
	data         EmailData
	subject      string
}

var (
	instance *EmailService
	once     sync.Once
)

func NewEmailService() *EmailService {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil {
			log.Println("Error loading .env file, continuing with system environment variables")
		}

		templatesDir := os.Getenv("TEMPLATES_DIR")
		if templatesDir == "" {
			log.Fatalf("TEMPLATES_DIR is not set in .env file")
		}

		email := os.Getenv("EMAIL_ADDRESS")
		if email == "" {
			log.Fatalf("EMAIL_ADDRESS is not set in .env file")
		}
		password := os.Getenv("EMAIL_PASSWORD")
		if password == "" {
			log.Fatalf("EMAIL_PASSWORD is not set in .env file")
		}

		instance = &EmailService{
			from:         email,
			password:     password,
			templatesDir: templatesDir,
			smtpHost:     "smtp.gmail.com",
			smtpPort:     "587",
			taskQueue:    make(chan EmailTask, 100),
		}

		go instance.processQueue()
	})
	return instance
}

func (s *EmailService) QueueEmail(to string, data EmailData) {
	s.taskQueue <- EmailTask{
		to:           to,
		templateFile: data.TemplateFileName(),
		data:         data,
		subject:      data.Subject(),
	}
}

func (s *EmailService) processQueue() {
	for task := range s.taskQueue {
		if err := s.send(task); err != nil {
			log.Printf("Error sending email to %s: %v", task.to, err)
		}
	}
}

func (s *EmailService) send(task EmailTask) error {
	templatePath := filepath.Join(s.templatesDir, task.templateFile)
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return fmt.Errorf("could not parse email template: %v", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, task.data); err != nil {
		return fmt.Errorf("could not execute email template: %v", err)
	}

	message := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.from, task.to, task.subject, body.String(),
	))

	auth := smtp.PlainAuth("", s.from, s.password, s.smtpHost)
	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{task.to}, message)
}
