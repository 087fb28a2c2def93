package workflow

import "fmt"

const (
	creatorWelcome = "Welcome to the flashcard creator! What subject would you like to create flashcards for? You can also upload a PDF file to generate flashcards."

	loadingGenerate = "Generating flashcards..."
	loadingFile     = "Processing your file..."
	loadingCommit   = "Creating your deck..."
	loadingEdit     = "Updating flashcards..."

	errRequest = "Sorry, there was an error processing your request. Please try again."
	errFile    = "Sorry, there was an error processing your file. Please try again."
	errCommit  = "Sorry, there was an error creating your deck. Please try again."
	errEdit    = "Sorry, there was an error updating the flashcards. Please try again."

	promptName        = "Please enter a name for your deck."
	promptSubject     = "Please enter a subject for your flashcards."
	promptInstruction = "Please describe how you would like to change the deck."
)

func subjectResponse(n int, subject string) string {
	return fmt.Sprintf("I can create %d flashcards for the subject %q. What would you like to name this deck?", n, subject)
}

func fileResponse(n int) string {
	return fmt.Sprintf("Great! I've processed your file and created %d flashcards. What would you like to name this deck?", n)
}

func commitResponse(name string, n int) string {
	return fmt.Sprintf("I've created your %q deck with %d flashcards. You can now start studying!", name, n)
}

func editResponse(title string, n int) string {
	return fmt.Sprintf("I've updated the %q deck based on your input. The deck now has %d cards.", title, n)
}

func fileDisplay(text, fileName string) string {
	if text == "" {
		return fmt.Sprintf("[File: %s]", fileName)
	}
	return fmt.Sprintf("%s [File: %s]", text, fileName)
}
