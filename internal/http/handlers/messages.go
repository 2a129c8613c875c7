package handlers

import (
	"errors"
	"fmt"

	"github.com/geocoder89/lentpath/internal/apperr"
	"github.com/geocoder89/lentpath/internal/auth"
	reposheets "github.com/geocoder89/lentpath/internal/repo/sheets"
	"github.com/geocoder89/lentpath/internal/security"
	"github.com/geocoder89/lentpath/internal/session"
	"github.com/geocoder89/lentpath/internal/sheets"
)

// authMessage turns an Authenticator rejection into the flash shown to the
// visitor. ok is false for errors the visitor cannot act on.
func authMessage(err error, action string) (flash session.Flash, ok bool) {
	switch {
	case errors.Is(err, auth.ErrServiceUnavailable):
		if action == actionRegister {
			return session.Flash{Level: session.FlashError, Text: "Impossible de se connecter à la base d'utilisateurs pour l'inscription."}, true
		}
		return session.Flash{Level: session.FlashError, Text: "Service indisponible : la base d'utilisateurs n'a pas pu être chargée."}, true
	case errors.Is(err, auth.ErrMissingFields):
		return session.Flash{Level: session.FlashWarning, Text: "L'e-mail et le mot de passe sont obligatoires."}, true
	case errors.Is(err, auth.ErrEmailTaken):
		return session.Flash{Level: session.FlashWarning, Text: "Cet e-mail est déjà utilisé. Veuillez vous connecter."}, true
	case errors.Is(err, auth.ErrStoreEmpty):
		return session.Flash{Level: session.FlashError, Text: "La base d'utilisateurs est vide ou n'a pas pu être chargée."}, true
	case errors.Is(err, auth.ErrUserNotFound):
		return session.Flash{Level: session.FlashError, Text: "Utilisateur non trouvé. Veuillez vérifier votre email ou vous inscrire."}, true
	case errors.Is(err, auth.ErrWrongPassword):
		return session.Flash{Level: session.FlashError, Text: "Mot de passe incorrect."}, true
	case errors.Is(err, security.ErrPasswordTooLong):
		return session.Flash{Level: session.FlashWarning, Text: fmt.Sprintf("Le mot de passe ne doit pas dépasser %d octets.", security.MaxPasswordBytes)}, true
	case apperr.Is(err, apperr.KindConfiguration):
		return session.Flash{Level: session.FlashError, Text: "Configuration de la feuille incorrecte : " + err.Error()}, true
	case errors.Is(err, reposheets.ErrStoreUnavailable), apperr.Is(err, apperr.KindUnavailable):
		return session.Flash{Level: session.FlashError, Text: "Erreur lors de l'enregistrement : le service de feuilles est indisponible. Veuillez réessayer."}, true
	case apperr.Is(err, apperr.KindAuthorization):
		return session.Flash{Level: session.FlashError, Text: "Écriture refusée : vérifiez que le compte de service a les droits d'éditeur sur la feuille."}, true
	}

	return session.Flash{Level: session.FlashError, Text: "Une erreur est survenue. Veuillez réessayer."}, false
}

// openNotice explains a workbook that could not be loaded.
func openNotice(table string, err error) session.Flash {
	var oe *sheets.OpenError
	account := ""
	if errors.As(err, &oe) {
		account = oe.Account
	}

	switch {
	case errors.Is(err, sheets.ErrTableNotFound):
		return session.Flash{Level: session.FlashError, Text: fmt.Sprintf("La feuille '%s' n'a pas été trouvée. Vérifiez le nom et le partage.", table)}
	case errors.Is(err, sheets.ErrPermissionDenied):
		text := fmt.Sprintf("Accès refusé à la feuille '%s'.", table)
		if account != "" {
			text += fmt.Sprintf(" Partagez-la en tant qu'éditeur avec le compte de service %s.", account)
		}
		return session.Flash{Level: session.FlashError, Text: text}
	default:
		return session.Flash{Level: session.FlashError, Text: fmt.Sprintf("Erreur lors du chargement des données de %s : service indisponible.", table)}
	}
}

const (
	noticeUsersEmpty   = "⚠️ Attention : La base d'utilisateurs est vide. La première inscription va créer la première ligne de données dans votre feuille."
	noticeContentEmpty = "⚠️ La base de contenu du Carême est vide. Veuillez la remplir pour afficher les parcours."

	msgRegistered = "Inscription réussie ! Vous pouvez maintenant vous connecter."
)

func contentHint(sheet string, err error) string {
	if apperr.Is(err, apperr.KindConfiguration) {
		return fmt.Sprintf("La feuille '%s' doit contenir une colonne 'Date' au format AAAA-MM-JJ.", sheet)
	}

	return fmt.Sprintf("Veuillez remplir votre Google Sheet '%s' avec la date d'aujourd'hui (format YYYY-MM-JJ) et vérifier que les noms de colonnes sont corrects.", sheet)
}
