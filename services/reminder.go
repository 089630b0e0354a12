// services/reminder.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"medequip-backend/models"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// ReminderService runs the daily AMC sweep: expire overdue contracts, then
// notify customers whose contracts end within the next 30 days. Everything
// here is best-effort; failures are logged, never propagated.
type ReminderService struct {
	db     *gorm.DB
	amcs   *AMCService
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db:   db,
		amcs: NewAMCService(db),
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", s.RunDailySweep)

	c.Start()
	log.Println("AMC reminder scheduler started")
}

func (s *ReminderService) RunDailySweep() {
	log.Println("Starting daily AMC sweep...")

	expired, err := s.amcs.ExpireOverdue()
	if err != nil {
		log.Printf("Failed to expire overdue contracts: %v", err)
	} else if expired > 0 {
		log.Printf("Marked %d contracts expired", expired)
	}

	amcs, err := s.amcs.ExpiringSoon(30)
	if err != nil {
		log.Printf("Failed to fetch expiring contracts: %v", err)
		return
	}
	s.sendExpiryReminders(amcs)

	log.Println("Daily AMC sweep completed")
}

func (s *ReminderService) sendExpiryReminders(amcs []models.AMC) {
	for _, amc := range amcs {
		if amc.Customer == nil || amc.Customer.Phone == "" {
			continue
		}

		machineName := "your equipment"
		if amc.Machine != nil {
			machineName = amc.Machine.Name
		}
		message := fmt.Sprintf(
			"Hi %s, your maintenance contract %s for %s expires on %s. Please contact us to renew.",
			amc.Customer.Name, amc.ContractNumber, machineName,
			amc.EndDate.Format("02 Jan 2006"))

		// WhatsApp when the phone is E.164, plain SMS otherwise.
		channel := "sms"
		to := amc.Customer.Phone
		if strings.HasPrefix(to, "+") {
			to = "whatsapp:" + to
			channel = "whatsapp"
		}

		params := &twilioApi.CreateMessageParams{}
		params.SetTo(to)
		params.SetBody(message)
		if channel == "whatsapp" {
			params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
		} else {
			params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
		}

		resp, err := s.client.Api.CreateMessage(params)
		status := "sent"
		errorMsg := ""

		if err != nil {
			log.Printf("Failed to send reminder for contract %s: %v", amc.ContractNumber, err)
			status = "failed"
			errorMsg = err.Error()
		} else if resp.Sid != nil {
			log.Printf("Reminder sent for contract %s, SID: %s", amc.ContractNumber, *resp.Sid)
		}

		reminderLog := models.ReminderLog{
			AMCID:        amc.ID,
			CustomerID:   amc.CustomerID,
			Message:      message,
			Status:       status,
			ErrorMessage: errorMsg,
			Channel:      channel,
			SentAt:       time.Now(),
		}
		if err := s.db.Create(&reminderLog).Error; err != nil {
			log.Printf("Failed to log reminder for contract %s: %v", amc.ContractNumber, err)
		}
	}
}
