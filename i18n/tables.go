package i18n

import "github.com/kbukum/voicy/pipeline"

var english = map[string]string{
	pipeline.KeySpeakClearly:     "Sorry, I could not make out any words. Please speak clearly.",
	pipeline.KeyError:            "Sorry, something went wrong while transcribing this message.",
	pipeline.KeyFileTooLarge:     "Sorry, Telegram does not let bots download files larger than 20 MB.",
	pipeline.KeyInitiated:        "_Voice recognition initiated..._",
	pipeline.KeyGoogleCredential: "This chat uses Google Speech but has no credentials yet. Please ask an admin to add them.",
}

var russian = map[string]string{
	pipeline.KeySpeakClearly:     "Извините, я не смог разобрать слова. Пожалуйста, говорите четче.",
	pipeline.KeyError:            "Извините, при распознавании сообщения что-то пошло не так.",
	pipeline.KeyFileTooLarge:     "Извините, Telegram не позволяет ботам скачивать файлы больше 20 МБ.",
	pipeline.KeyInitiated:        "_Распознавание начато..._",
	pipeline.KeyGoogleCredential: "В этом чате выбран Google Speech, но ключ еще не добавлен. Попросите администратора сделать это.",
}
